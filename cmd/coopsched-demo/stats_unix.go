//go:build unix

package main

import (
	"fmt"

	"github.com/docker/go-units"
	"github.com/mackerelio/go-osstat/loadavg"
	"github.com/mackerelio/go-osstat/uptime"
)

func readSysStats() (string, error) {
	up, err := uptime.Get()
	if err != nil {
		return "", fmt.Errorf("uptime.Get(): %v", err)
	}
	la, err := loadavg.Get()
	if err != nil {
		return "", fmt.Errorf("loadavg.Get(): %v", err)
	}
	return fmt.Sprintf(
		"up %s, load %.2f %.2f %.2f",
		units.HumanDuration(up), la.Loadavg1, la.Loadavg5, la.Loadavg15,
	), nil
}
