// Command fhimg is the CLI front-end for the homomorphic image-operation
// engine (spec.md §6): it can start a session server, or act as a client
// driving one over TCP.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
