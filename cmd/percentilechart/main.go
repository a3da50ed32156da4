package main

import "github.com/uyouii/percentile-chart/cmd"

func main() {
	cmd.Execute()
}
