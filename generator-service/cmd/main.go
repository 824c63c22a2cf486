package main

import (
	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/cmd/commands"
)

func main() {
	commands.Execute()
}
