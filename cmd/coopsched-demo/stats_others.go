//go:build !unix

package main

func readSysStats() (string, error) {
	return "sys stats unavailable on this platform", nil
}
