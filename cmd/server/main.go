package main

import (
	"github.com/memoriagame/memoria/internal/cmd"
)

func main() {
	cmd.Execute()
}
