// Command bigfloatdump decodes hex-encoded bigfloat values and prints them.
//
// Usage:
//
//	bigfloatdump b8 a7 5c
//	echo b8 | bigfloatdump
//
// With no arguments it reads one hex string per line from stdin.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/jmkristian/bigfloat"
)

func main() {
	args := os.Args[1:]
	status := 0
	if len(args) > 0 {
		for _, arg := range args {
			if !dump(arg) {
				status = 1
			}
		}
	} else {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			if !dump(line) {
				status = 1
			}
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "bigfloatdump: %v\n", err)
			status = 1
		}
	}
	os.Exit(status)
}

func dump(hex string) bool {
	value, err := bigfloat.Decode(hex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bigfloatdump: %s: %v\n", hex, err)
		return false
	}
	fmt.Printf("%s -> %s\n", hex, value.String())
	return true
}
