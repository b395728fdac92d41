package cli

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/vitalscope/internal/device"
)

// devicesCommand prints the serial ports present on this machine.
func devicesCommand() error {
	ports, err := device.ListPorts()
	if err != nil {
		return err
	}

	if len(ports) == 0 {
		fmt.Println("No serial ports found.")
		return nil
	}

	for _, p := range ports {
		fmt.Println(p)
	}
	return nil
}

// patientsCommand prints the patient roster.
func patientsCommand(offline bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, err := resolveServices(cfg, offline)
	if err != nil {
		return err
	}

	patients, err := svc.ListPatients(context.Background())
	if err != nil {
		return err
	}

	if len(patients) == 0 {
		fmt.Println("No patients registered.")
		return nil
	}

	fmt.Printf("%-12s %-24s %s\n", "ID", "NAME", "ROOM")
	for _, p := range patients {
		fmt.Printf("%-12s %-24s %s\n", p.ID, p.Name, p.Room)
	}
	return nil
}
