package main

import "github.com/skillnet-dev/skillnet-go/cmd/skillnetctl/cmd"

func main() {
	cmd.Execute()
}
