// Command cachesim runs programs on a small CPU with a cache and shows what
// every instruction did to the registers, the cache and the memory.
package main

import "github.com/sarchlab/cachesim/cachesim/cmd"

func main() {
	cmd.Execute()
}
