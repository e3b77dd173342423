package datasource

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/siber-nasional/cve-dashboard/internal/domain"
)

// Synthetic vocabulary mirrors the shape of the real index export so the
// dashboard renders realistically when degraded.
var (
	mockOrganizations = []string{
		"Kementerian Keuangan", "Kementerian Kesehatan", "BSSN",
		"Kementerian Perhubungan", "Pemda DKI Jakarta", "Pemprov Jawa Barat",
		"Bank Indonesia", "OJK", "Kementerian ESDM", "Kementerian Pertahanan",
	}
	mockVulnerabilities = []string{
		"CVE-2023-38831", "CVE-2023-44487", "CVE-2024-21413",
		"CVE-2021-44228 (Log4j)", "CVE-2023-23397", "CVE-2024-3400",
		"CVE-2023-4966 (Citrix Bleed)",
	}
	// severityWeights matches the observed distribution: mostly medium/low,
	// a thin critical tail.
	severityWeights = []float64{0.1, 0.2, 0.4, 0.3}
)

// Generator produces synthetic detection datasets for the fallback path.
type Generator struct {
	records  int
	spanDays int
	rng      *rand.Rand
}

// NewGenerator creates a synthetic dataset generator.
func NewGenerator(records, spanDays int, seed int64) *Generator {
	return &Generator{
		records:  records,
		spanDays: spanDays,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Generate builds a synthetic Dataset ending at now.
func (g *Generator) Generate(now time.Time) *domain.Dataset {
	records := make([]domain.Record, 0, g.records)
	for i := 0; i < g.records; i++ {
		records = append(records, g.record(now))
	}
	return &domain.Dataset{
		Records: records,
		Source:  domain.SourceSynthetic,
	}
}

func (g *Generator) record(now time.Time) domain.Record {
	return domain.Record{
		Timestamp:     now.AddDate(0, 0, -g.rng.Intn(g.spanDays)),
		Severity:      g.weightedSeverity(),
		Sector:        domain.Sectors[g.rng.Intn(len(domain.Sectors))],
		Organization:  mockOrganizations[g.rng.Intn(len(mockOrganizations))],
		Vulnerability: mockVulnerabilities[g.rng.Intn(len(mockVulnerabilities))],
		SourceAsset:   fmt.Sprintf("10.10.%d.%d", 1+g.rng.Intn(255), 1+g.rng.Intn(255)),
		TargetAsset:   fmt.Sprintf("web-server-%d", 1+g.rng.Intn(20)),
		Score:         g.score(),
		Exploited:     g.rng.Intn(2) == 0,
		IPAddresses:   fmt.Sprintf("192.168.1.%d", 1+g.rng.Intn(255)),
	}
}

func (g *Generator) weightedSeverity() string {
	roll := g.rng.Float64()
	cumulative := 0.0
	for i, w := range severityWeights {
		cumulative += w
		if roll < cumulative {
			return domain.SeverityRank[i]
		}
	}
	return domain.SeverityLow
}

// score draws a CVSS-like score in [4.0, 10.0], one decimal place.
func (g *Generator) score() float64 {
	s := 4.0 + g.rng.Float64()*6.0
	return math.Round(s*10) / 10
}
