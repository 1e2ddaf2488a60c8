// boundcheck subscribes to a std_msgs/Float32 topic for a fixed window and
// fails when no sample arrives or a sample's magnitude exceeds a bound.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "boundcheck:", err)
		os.Exit(1)
	}
}
