package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

var processStart = time.Now()

// uptimeString reports the system uptime from /proc/uptime, falling back
// to the process uptime on platforms without it.
func uptimeString() string {
	if data, err := os.ReadFile("/proc/uptime"); err == nil {
		fields := strings.Fields(string(data))
		if len(fields) > 0 {
			if secs, err := strconv.ParseFloat(fields[0], 64); err == nil {
				return (time.Duration(secs * float64(time.Second))).Truncate(time.Second).String()
			}
		}
	}
	return time.Since(processStart).Truncate(time.Second).String()
}
