// Package cli is the magnetcli command line.
//
// The root command opens the resource browser. Subcommands call the
// MagnetDB API once and print the answer:
//
//	magnetcli magnets list --status in_study --sort-by name
//	magnetcli parts show 12
//	magnetcli sites add-magnet 3 7 --z-offset 0
//	magnetcli mesh attach --site 3 --type 3d --mesh site.med
//	magnetcli logs --level warn
//
// Create and update commands take form fields as --set key=value and files
// as --file key=path. Values are sent as typed; the server casts them.
// Every command accepts --json to print the decoded response instead of a
// table.
package cli
