// Package monitoring exposes the state of live devices over HTTP.
package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/sarchlab/mali/device"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Monitor turns a set of devices into a web server so their bring-up
// state can be inspected from outside the process.
type Monitor struct {
	devices    []*device.Device
	portNumber int
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterDevice registers a device to be monitored.
func (m *Monitor) RegisterDevice(d *device.Device) {
	m.devices = append(m.devices, d)
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/devices", m.listDevices)
	r.HandleFunc("/api/device/{name}", m.deviceSummary)
	r.HandleFunc("/api/device/{name}/ip/{ip}", m.ipDetails)
	r.HandleFunc("/api/resource", m.listResources)

	return r
}

// StartServer starts the monitor as a web server with a custom port if
// wanted. It returns the port the server listens on.
func (m *Monitor) StartServer() int {
	http.Handle("/", m.router())

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	port := listener.Addr().(*net.TCPAddr).Port

	fmt.Fprintf(os.Stderr,
		"Monitoring devices with http://localhost:%d\n", port)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()

	return port
}

// OpenDashboard opens the monitor page in the default browser.
func OpenDashboard(port int) {
	err := browser.OpenURL(fmt.Sprintf("http://localhost:%d/api/devices", port))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open browser: %s\n", err)
	}
}

func (m *Monitor) listDevices(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, d := range m.devices {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "\"%s\"", d.Name())
	}
	fmt.Fprint(w, "]")
}

type ipRsp struct {
	Name    string `json:"name"`
	Present bool   `json:"present"`
	IRQ     int    `json:"irq"`
}

type pipeRsp struct {
	Name          string `json:"name"`
	NumProcessors int    `json:"num_processors"`
	NumMMUs       int    `json:"num_mmus"`
	NumL2Caches   int    `json:"num_l2_caches"`
}

type deviceRsp struct {
	Name       string    `json:"name"`
	ID         string    `json:"id"`
	Generation string    `json:"generation"`
	Ready      bool      `json:"ready"`
	VAStart    uint64    `json:"va_start"`
	VAEnd      uint64    `json:"va_end"`
	IPs        []ipRsp   `json:"ips"`
	Pipes      []pipeRsp `json:"pipes"`
}

func (m *Monitor) deviceSummary(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	d := m.findDeviceOr404(w, name)
	if d == nil {
		return
	}

	vaStart, vaEnd := d.VARange()
	rsp := deviceRsp{
		Name:       d.Name(),
		ID:         d.ID(),
		Generation: d.Generation().String(),
		Ready:      d.Ready(),
		VAStart:    vaStart,
		VAEnd:      vaEnd,
	}

	for k := device.IPKind(0); k < device.NumIP; k++ {
		ip := d.IP(k)
		rsp.IPs = append(rsp.IPs, ipRsp{
			Name:    ip.Name(),
			Present: ip.Present(),
			IRQ:     ip.IRQ(),
		})
	}

	for k := device.PipeKind(0); k < device.NumPipe; k++ {
		p := d.Pipe(k)
		rsp.Pipes = append(rsp.Pipes, pipeRsp{
			Name:          p.Name(),
			NumProcessors: p.NumProcessors(),
			NumMMUs:       p.NumMMUs(),
			NumL2Caches:   p.NumL2Caches(),
		})
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) ipDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	ipName := mux.Vars(r)["ip"]

	d := m.findDeviceOr404(w, name)
	if d == nil {
		return
	}

	ip := findIPOr404(w, d, ipName)
	if ip == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(ip)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) findDeviceOr404(
	w http.ResponseWriter,
	name string,
) *device.Device {
	var d *device.Device
	for _, candidate := range m.devices {
		if candidate.Name() == name {
			d = candidate
		}
	}

	if d == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Device not found"))
		dieOnErr(err)
	}

	return d
}

func findIPOr404(
	w http.ResponseWriter,
	d *device.Device,
	name string,
) *device.IP {
	for k := device.IPKind(0); k < device.NumIP; k++ {
		if k.String() == name {
			return d.IP(k)
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("IP not found"))
	dieOnErr(err)

	return nil
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
