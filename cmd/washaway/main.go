// Command washaway is a terminal image-reveal player: drag across one picture to wash it
// away and uncover the next, with a looping soundtrack
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
