package admin

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/burrowdns/burrow/internal/server"
)

type handler struct {
	dnsStats  *server.Stats
	startTime time.Time
}

func newHandler(stats *server.Stats) *handler {
	return &handler{dnsStats: stats, startTime: time.Now()}
}

// StatusResponse is the /healthz payload.
type StatusResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the /stats payload.
type StatsResponse struct {
	Uptime        string           `json:"uptime"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	StartTime     time.Time        `json:"start_time"`
	GoRoutines    int              `json:"goroutines"`
	MemoryAllocMB float64          `json:"memory_alloc_mb"`
	NumCPU        int              `json:"num_cpu"`
	Host          *HostResponse    `json:"host,omitempty"`
	DNS           *server.Snapshot `json:"dns,omitempty"`
}

// HostResponse carries machine-level information for /stats.
type HostResponse struct {
	Hostname      string  `json:"hostname"`
	OS            string  `json:"os"`
	Platform      string  `json:"platform"`
	UptimeSeconds uint64  `json:"uptime_seconds"`
	MemoryUsedPct float64 `json:"memory_used_pct"`
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *handler) stats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.startTime)
	resp := StatsResponse{
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: int64(uptime.Seconds()),
		StartTime:     h.startTime,
		GoRoutines:    runtime.NumGoroutine(),
		MemoryAllocMB: float64(m.Alloc) / 1024 / 1024,
		NumCPU:        runtime.NumCPU(),
		Host:          hostInfo(),
	}
	if h.dnsStats != nil {
		snap := h.dnsStats.Snapshot()
		resp.DNS = &snap
	}
	c.JSON(http.StatusOK, resp)
}

// hostInfo gathers machine-level stats. Failures are non-fatal; the section
// is simply omitted from the response.
func hostInfo() *HostResponse {
	info, err := host.Info()
	if err != nil {
		return nil
	}
	resp := &HostResponse{
		Hostname:      info.Hostname,
		OS:            info.OS,
		Platform:      info.Platform,
		UptimeSeconds: info.Uptime,
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		resp.MemoryUsedPct = vm.UsedPercent
	}
	return resp
}
