package main

import (
	"fmt"
	"log"
	"os"
)

var warnLogger = log.New(os.Stderr, "", log.LstdFlags)

func logWarn(format string, v ...interface{}) {
	warnLogger.Printf("warning: %s", fmt.Sprintf(format, v...))
}
