package main

import (
	"os"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
