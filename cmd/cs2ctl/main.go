package main

import (
	"github.com/pr-poehali-dev/cs2-gaming-public/internal/cli"
)

func main() {
	cli.Execute()
}
