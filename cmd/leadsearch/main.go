package main

import (
	"leadsearch/cmd/leadsearch/commands"
	"leadsearch/lib/util/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
