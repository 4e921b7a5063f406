package radio

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Runner executes an external command and returns its standard output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return out, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

type cmdResult struct {
	output []byte
	err    error
}

// pendingCmd is a command running in the background; its result is picked up
// by polling.
type pendingCmd struct {
	done   chan cmdResult
	cancel context.CancelFunc
	result *cmdResult
}

func (p *pendingCmd) poll() (cmdResult, bool) {
	if p.result != nil {
		return *p.result, true
	}
	select {
	case r := <-p.done:
		p.result = &r
		return r, true
	default:
		return cmdResult{}, false
	}
}

// NmcliDriver drives a wireless interface through NetworkManager's nmcli.
type NmcliDriver struct {
	path    string
	iface   string
	timeout time.Duration
	run     Runner
	logger  zerolog.Logger

	mu            sync.Mutex
	scan          *pendingCmd
	scanHandle    ScanHandle
	includeHidden bool
	connect       *pendingCmd
	profile       string // connection profile created by the last BeginConnect
	wg            sync.WaitGroup
}

// NewNmcliDriver creates a driver for iface. A nil run uses ExecRunner.
func NewNmcliDriver(path, iface string, timeout time.Duration, run Runner, logger zerolog.Logger) *NmcliDriver {
	if run == nil {
		run = ExecRunner
	}
	return &NmcliDriver{
		path:    path,
		iface:   iface,
		timeout: timeout,
		run:     run,
		logger:  logger,
	}
}

func (d *NmcliDriver) runSync(args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	return d.run(ctx, d.path, args...)
}

func (d *NmcliDriver) start(args ...string) *pendingCmd {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	p := &pendingCmd{done: make(chan cmdResult, 1), cancel: cancel}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()
		out, err := d.run(ctx, d.path, args...)
		p.done <- cmdResult{output: out, err: err}
	}()
	return p
}

// SetStationMode switches the Wi-Fi radio on.
func (d *NmcliDriver) SetStationMode() error {
	_, err := d.runSync("radio", "wifi", "on")
	return err
}

// Disconnect drops the current association and cancels a pending connect.
// With clearCredentials it also deletes the connection profile created by the
// last BeginConnect so NetworkManager cannot auto-join it.
func (d *NmcliDriver) Disconnect(clearCredentials bool) error {
	d.mu.Lock()
	if d.connect != nil {
		d.connect.cancel()
		d.connect = nil
	}
	profile := d.profile
	if clearCredentials {
		d.profile = ""
	}
	d.mu.Unlock()

	if _, err := d.runSync("device", "disconnect", d.iface); err != nil {
		// nmcli fails when the device is already disconnected
		d.logger.Debug().Err(err).Str("iface", d.iface).Msg("nmcli disconnect reported an error")
	}

	if clearCredentials && profile != "" {
		if _, err := d.runSync("connection", "delete", "id", profile); err != nil {
			return fmt.Errorf("failed to delete connection profile %q: %w", profile, err)
		}
	}
	return nil
}

// BeginScan starts a rescan in the background.
func (d *NmcliDriver) BeginScan(includeHidden bool) (ScanHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.scan != nil {
		d.scan.cancel()
	}
	d.scanHandle++
	d.includeHidden = includeHidden
	d.scan = d.start("-t", "-f", "SSID,SIGNAL,SECURITY", "device", "wifi", "list",
		"ifname", d.iface, "--rescan", "yes")

	return d.scanHandle, nil
}

// PollScan reports the state of the scan identified by handle.
func (d *NmcliDriver) PollScan(handle ScanHandle) ScanPoll {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.scan == nil || handle != d.scanHandle {
		d.logger.Warn().Err(ErrUnknownScan).Int("handle", int(handle)).Msg("Polled an unknown scan")
		return ScanPoll{State: ScanFailed}
	}

	res, finished := d.scan.poll()
	if !finished {
		return ScanPoll{State: ScanRunning}
	}
	if res.err != nil {
		d.logger.Error().Err(res.err).Msg("nmcli scan failed")
		return ScanPoll{State: ScanFailed}
	}

	aps, err := parseWifiList(res.output, d.includeHidden)
	if err != nil {
		d.logger.Error().Err(err).Msg("Failed to parse nmcli scan output")
		return ScanPoll{State: ScanFailed}
	}
	return ScanPoll{State: ScanDone, Results: aps}
}

// BeginConnect starts associating with ssid in the background.
func (d *NmcliDriver) BeginConnect(ssid, password string) error {
	if ssid == "" {
		return fmt.Errorf("radio: empty ssid")
	}

	args := []string{"device", "wifi", "connect", ssid}
	if password != "" {
		args = append(args, "password", password)
	}
	args = append(args, "ifname", d.iface)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connect != nil {
		d.connect.cancel()
	}
	d.profile = ssid
	d.connect = d.start(args...)
	return nil
}

// PollConnectionStatus reports whether the interface is connected.
func (d *NmcliDriver) PollConnectionStatus() ConnectionStatus {
	d.mu.Lock()
	if d.connect != nil {
		if res, finished := d.connect.poll(); finished && res.err != nil {
			d.logger.Debug().Err(res.err).Msg("nmcli connect failed")
		}
	}
	d.mu.Unlock()

	out, err := d.runSync("-t", "-f", "DEVICE,STATE", "device", "status")
	if err != nil {
		d.logger.Debug().Err(err).Msg("Failed to query device status")
		return NotConnected
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := splitTerse(scanner.Text())
		if len(fields) < 2 || fields[0] != d.iface {
			continue
		}
		if fields[1] == "connected" {
			return Connected
		}
		return NotConnected
	}
	return NotConnected
}

// Close cancels background commands and waits for them to exit.
func (d *NmcliDriver) Close() {
	d.mu.Lock()
	if d.scan != nil {
		d.scan.cancel()
	}
	if d.connect != nil {
		d.connect.cancel()
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// parseWifiList parses `nmcli -t -f SSID,SIGNAL,SECURITY device wifi list`.
func parseWifiList(output []byte, includeHidden bool) ([]AccessPoint, error) {
	var aps []AccessPoint
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitTerse(line)
		if len(fields) != 3 {
			continue
		}
		ssid := fields[0]
		if ssid == "" && !includeHidden {
			continue
		}
		quality, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			continue
		}
		security := strings.TrimSpace(fields[2])
		aps = append(aps, AccessPoint{
			SSID:   ssid,
			Signal: qualityToDBm(quality),
			Open:   security == "" || security == "--",
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan nmcli output: %w", err)
	}
	return aps, nil
}

// qualityToDBm maps nmcli's 0-100 signal quality onto an approximate dBm value.
func qualityToDBm(quality int) int {
	quality = max(0, min(quality, 100))
	return quality/2 - 100
}

// splitTerse splits one line of nmcli terse output, honoring \: and \\ escapes.
func splitTerse(line string) []string {
	var fields []string
	var cur strings.Builder
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line):
			i++
			cur.WriteByte(line[i])
		case c == ':':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}
