// Command hashpass prints a bcrypt hash for OPERATOR_PASSWORD_HASH.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/iliyamo/flight-price-watch/internal/utils"
)

func main() {
	cost := flag.Int("cost", utils.DefaultCost, "bcrypt cost")
	flag.Parse()

	pw := flag.Arg(0)
	if pw == "" {
		fmt.Fprint(os.Stderr, "password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("read password: %v", err)
		}
		pw = strings.TrimRight(line, "\r\n")
	}
	if pw == "" {
		log.Fatal("empty password")
	}
	hash, err := utils.HashPassword(pw, *cost)
	if err != nil {
		log.Fatalf("hash: %v", err)
	}
	fmt.Println(hash)
}
