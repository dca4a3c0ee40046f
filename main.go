package main

import "github.com/keyward/keyward/cmd/keyward"

func main() { keyward.Execute() }
