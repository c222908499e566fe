package commands

import "fmt"

func errUsage(usage string) error {
	return fmt.Errorf("usage: bfc %s", usage)
}
