package pricecache

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"

	"broker_market/internal/domain/entity"
	"broker_market/internal/metrics"
	"broker_market/pkg/contextx"
	"broker_market/pkg/logx"
)

//nolint:gochecknoglobals
var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary
	logger = contextx.LoggerFromContextOrDefault
)

// Catalog ranks vendors per template at build time.
type Catalog interface {
	BestVendorFor(templateID string) (entity.Vendor, bool)
}

// Valuation prices marketplace-eligible templates at build time.
type Valuation interface {
	EligibleTemplate(templateID string) bool
	AverageTemplatePrice(ctx context.Context, templateID string) (float64, error)
}

// Table is the warmed-up per-template lookup: best vendor and marketplace
// average price. Immutable after warm-up, safe for unsynchronized reads.
type Table struct {
	vendorTable map[string]string
	marketTable map[string]float64
}

func (t *Table) VendorFor(templateID string) (string, bool) {
	vendorID, ok := t.vendorTable[templateID]
	return vendorID, ok
}

func (t *Table) MarketPrice(templateID string) (float64, bool) {
	avg, ok := t.marketTable[templateID]
	return avg, ok
}

// VendorTable copies the full best-vendor table for read-only clients.
func (t *Table) VendorTable() map[string]string {
	result := make(map[string]string, len(t.vendorTable))
	for templateID, vendorID := range t.vendorTable {
		result[templateID] = vendorID
	}
	return result
}

// MarketTable copies the full average-price table for read-only clients.
func (t *Table) MarketTable() map[string]float64 {
	result := make(map[string]float64, len(t.marketTable))
	for templateID, avg := range t.marketTable {
		result[templateID] = avg
	}
	return result
}

// tableFile is the persisted schema. Changing it invalidates existing caches,
// which the load path treats as a rebuild, not an error.
type tableFile struct {
	Checksum    uint64             `json:"checksum"`
	VendorTable map[string]string  `json:"vendor_table"`
	MarketTable map[string]float64 `json:"market_table"`
}

// Builder derives the lookup table from the loaded catalogs, persisting it so
// later starts skip the expensive scan.
type Builder struct {
	templates []entity.ItemTemplate
	vendors   []entity.Vendor
	catalog   Catalog
	valuation Valuation
	path      string
}

func NewBuilder(
	templates []entity.ItemTemplate,
	vendors []entity.Vendor,
	catalog Catalog,
	valuation Valuation,
	path string,
) *Builder {
	return &Builder{
		templates: templates,
		vendors:   vendors,
		catalog:   catalog,
		valuation: valuation,
		path:      path,
	}
}

// Warm loads the persisted table when it matches the current catalogs, and
// otherwise rebuilds and persists it. The one-way cold-to-warm transition of
// the process; never call it concurrently.
func (b *Builder) Warm(ctx context.Context) (*Table, error) {
	if table, err := b.Load(); err == nil {
		logger(ctx).Info("lookup table loaded",
			slog.String("path", b.path),
			slog.Int("vendor_entries", len(table.vendorTable)),
			slog.Int("market_entries", len(table.marketTable)))
		metrics.CacheBuilds.WithLabelValues(metrics.SourceLoaded).Inc()
		return table, nil
	} else {
		logger(ctx).Warn("lookup table unusable, rebuilding", slog.String("path", b.path), logx.Error(err))
	}

	started := time.Now()
	table, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	logger(ctx).Info("lookup table built",
		slog.Duration("took", time.Since(started)),
		slog.Int("vendor_entries", len(table.vendorTable)),
		slog.Int("market_entries", len(table.marketTable)))

	if err := b.Persist(table); err != nil {
		// the table itself is sound, only the next start pays again
		logger(ctx).Warn("lookup table not persisted", slog.String("path", b.path), logx.Error(err))
	}

	metrics.CacheBuilds.WithLabelValues(metrics.SourceBuilt).Inc()
	return table, nil
}

// Build scans every valid template once: the vendor ranking is O(T×V), the
// market averaging O(T×L).
func (b *Builder) Build(ctx context.Context) (*Table, error) {
	table := &Table{
		vendorTable: make(map[string]string, len(b.templates)),
		marketTable: make(map[string]float64),
	}

	for _, tpl := range b.templates {
		if !tpl.Valid {
			continue
		}

		if vendor, ok := b.catalog.BestVendorFor(tpl.ID); ok {
			table.vendorTable[tpl.ID] = vendor.ID
		}

		if !b.valuation.EligibleTemplate(tpl.ID) {
			continue
		}
		avg, err := b.valuation.AverageTemplatePrice(ctx, tpl.ID)
		if err != nil {
			return nil, fmt.Errorf("average price of %s: %w", tpl.ID, err)
		}
		table.marketTable[tpl.ID] = avg
	}

	return table, nil
}

// Persist writes the table atomically: a temp file in the target directory,
// then a rename, so a crash never leaves a half-written cache.
func (b *Builder) Persist(table *Table) error {
	payload, err := json.Marshal(tableFile{
		Checksum:    b.checksum(),
		VendorTable: table.vendorTable,
		MarketTable: table.marketTable,
	})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".*")
	if err != nil {
		return fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	return os.Rename(tmp.Name(), b.path)
}

// Load reads the persisted table. Any failure (missing file, corrupt payload,
// schema drift, checksum mismatch against the current catalogs) is an error;
// the caller rebuilds.
func (b *Builder) Load() (*Table, error) {
	payload, err := os.ReadFile(b.path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var file tableFile
	if err := json.Unmarshal(payload, &file); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if file.VendorTable == nil || file.MarketTable == nil {
		return nil, fmt.Errorf("schema mismatch in %s", b.path)
	}
	if sum := b.checksum(); file.Checksum != sum {
		return nil, fmt.Errorf("catalog checksum mismatch: cached %d, current %d", file.Checksum, sum)
	}

	return &Table{vendorTable: file.VendorTable, marketTable: file.MarketTable}, nil
}

// checksum fingerprints the catalogs the table was derived from, in a stable
// order, so a catalog change invalidates the cache without operator action.
func (b *Builder) checksum() uint64 {
	hash := fnv.New64a()
	buf := make([]byte, 8)

	write := func(s string) {
		_, _ = hash.Write([]byte(s))
		_, _ = hash.Write([]byte{0})
	}
	writeUint := func(v uint64) {
		binary.BigEndian.PutUint64(buf, v)
		_, _ = hash.Write(buf)
	}

	templates := make([]entity.ItemTemplate, len(b.templates))
	copy(templates, b.templates)
	sort.Slice(templates, func(i, j int) bool { return templates[i].ID < templates[j].ID })
	for _, tpl := range templates {
		write(tpl.ID)
		writeUint(uint64(tpl.BasePrice))
		for _, categoryID := range tpl.Categories {
			write(categoryID)
		}
	}

	vendors := make([]entity.Vendor, len(b.vendors))
	copy(vendors, b.vendors)
	sort.Slice(vendors, func(i, j int) bool { return vendors[i].ID < vendors[j].ID })
	for _, v := range vendors {
		write(v.ID)
		writeUint(uint64(int64(v.PayoutCoefficient * 100)))
	}

	return hash.Sum64()
}
