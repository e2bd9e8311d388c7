//go:build debug

package collide

import "fmt"

func assertSoft(truth bool, msg ...interface{}) {
	if !truth {
		panic(fmt.Sprint("Assertion failed: ", msg))
	}
}
