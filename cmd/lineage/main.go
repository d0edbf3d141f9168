// Command lineage records and queries conversions between CRM pipeline
// entities (invite, lead, investisseur, projet, ...).
//
// Exit codes: 0 = success, 1 = error, 2 = invalid argument, 3 = not found.
package main

import "github.com/heartmarshall/crm-lineage/internal/cli"

func main() {
	cli.Main()
}
