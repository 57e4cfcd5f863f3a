package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/ttacon/chalk"
)

var exit = os.Exit

func WarnWith(err error) {
	fmt.Println("")
	fmt.Println(chalk.Yellow.Color("=== ⚠️  warning"))
	fmt.Println("")

	fmt.Println(err.Error())
}

// FailWith prints the error chain, with the stack of its innermost cause, and exits
func FailWith(err error) {
	command := strings.Join(os.Args, " ")

	fmt.Println("")
	fmt.Println(chalk.Red.Color("=== ❌ an error occurred."))
	fmt.Println("")
	fmt.Println(chalk.Dim.TextStyle("=== command: " + command))
	fmt.Println("")

	fmt.Printf("%+v\n", err)

	exit(1)
}
