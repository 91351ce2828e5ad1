// Package printer renders and delivers ESC/POS byte streams to thermal
// receipt printers. Documents are built with Document; delivery goes through
// a Printer transport (USB device file, raw TCP port 9100, or a no-op null
// printer for terminals without hardware).
package printer

import (
	"fmt"
	"net"
	"os"
	"time"
)

const (
	networkDialTimeout  = 5 * time.Second
	networkWriteTimeout = 10 * time.Second
	networkProbeTimeout = 2 * time.Second
)

// Printer delivers raw ESC/POS data to a thermal printer.
type Printer interface {
	// Print sends raw ESC/POS bytes to the printer.
	Print(data []byte) error
	// Close releases the printer connection/handle.
	Close() error
	// IsConnected reports whether the printer is reachable right now.
	IsConnected() bool
}

// usbPrinter writes each job to a character device (e.g. /dev/usb/lp0). The
// device is opened per job so an unplugged printer recovers without a restart.
type usbPrinter struct {
	devicePath string
}

// NewUSBPrinter creates a printer backed by a USB device file.
func NewUSBPrinter(devicePath string) Printer {
	return &usbPrinter{devicePath: devicePath}
}

func (p *usbPrinter) Print(data []byte) error {
	f, err := os.OpenFile(p.devicePath, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.devicePath, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write to %s: %w", p.devicePath, err)
	}
	return nil
}

func (p *usbPrinter) Close() error {
	// Nothing held between jobs.
	return nil
}

func (p *usbPrinter) IsConnected() bool {
	_, err := os.Stat(p.devicePath)
	return err == nil
}

// networkPrinter speaks the raw-socket protocol most thermal printers expose
// on port 9100. Like the USB transport it dials per job.
type networkPrinter struct {
	address string
}

// NewNetworkPrinter creates a printer reached over TCP. The address must
// include the port, e.g. "192.168.1.100:9100".
func NewNetworkPrinter(address string) Printer {
	return &networkPrinter{address: address}
}

func (p *networkPrinter) Print(data []byte) error {
	conn, err := net.DialTimeout("tcp", p.address, networkDialTimeout)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(networkWriteTimeout))

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write to %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Close() error {
	return nil
}

func (p *networkPrinter) IsConnected() bool {
	conn, err := net.DialTimeout("tcp", p.address, networkProbeTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// nullPrinter swallows every job. Used when the register has no printer, so
// receipt endpoints can still return the formatted data as JSON.
type nullPrinter struct{}

// NewNullPrinter creates a no-op printer.
func NewNullPrinter() Printer {
	return &nullPrinter{}
}

func (p *nullPrinter) Print(data []byte) error { return nil }
func (p *nullPrinter) Close() error            { return nil }
func (p *nullPrinter) IsConnected() bool       { return false }

// NewPrinterFromConfig builds the transport named by printerType: "usb",
// "network", or "none". usbPath and address apply to their respective types.
func NewPrinterFromConfig(printerType, usbPath, address string) (Printer, error) {
	switch printerType {
	case "usb":
		if usbPath == "" {
			return nil, fmt.Errorf("printer: USB printer type requires a device path")
		}
		return NewUSBPrinter(usbPath), nil
	case "network":
		if address == "" {
			return nil, fmt.Errorf("printer: network printer type requires an address")
		}
		return NewNetworkPrinter(address), nil
	case "none", "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", printerType)
	}
}
