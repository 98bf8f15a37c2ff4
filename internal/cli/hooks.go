package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skygrid/pkg/observability"
)

// debugHooks reports pipeline and cache events to a logger at debug level.
type debugHooks struct {
	logger *log.Logger
}

func (h debugHooks) OnAssembleStart(_ context.Context, site string) {
	h.logger.Debug("assemble started", "site", site)
}

func (h debugHooks) OnAssembleComplete(_ context.Context, site string, segments int, d time.Duration, err error) {
	h.logger.Debug("assemble finished", "site", site, "segments", segments, "duration", d, "error", err)
}

func (h debugHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h debugHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render finished", "formats", formats, "duration", d, "error", err)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// EnableDebugHooks routes observability events to the CLI logger.
func (c *CLI) EnableDebugHooks() {
	h := debugHooks{logger: c.Logger}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}
