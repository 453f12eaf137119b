package main

import (
	"os"

	"github.com/lukasgolson/sindex"
)

func main() {
	os.Exit(sindex.Run())
}
