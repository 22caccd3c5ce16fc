package multiverse

import "math/rand"

// analogueCatalog holds anonymized precedent cases the simulator surfaces
// alongside universes. Entries are illustrative patterns, not claims about
// specific companies.
var analogueCatalog = []Analogue{
	{
		Case:      "Mid-market SaaS platform, 2019 expansion cycle",
		Decision:  "Entered an adjacent vertical with a full product commitment in one quarter",
		Outcome:   "Revenue grew 30% but support load doubled and churn rose for two quarters before stabilizing",
		Relevance: 0.7,
	},
	{
		Case:      "Enterprise infrastructure vendor, pricing reset",
		Decision:  "Moved from perpetual licensing to usage-based pricing across the whole base at once",
		Outcome:   "Net revenue retention improved after an 8% churn spike in the first two quarters",
		Relevance: 0.6,
	},
	{
		Case:      "Regional logistics firm, staged automation pilot",
		Decision:  "Piloted warehouse automation at one site before committing fleet-wide",
		Outcome:   "Pilot surfaced integration costs early; the staged path reached the same end state 20% cheaper",
		Relevance: 0.75,
	},
	{
		Case:      "Consumer fintech, defensive consolidation",
		Decision:  "Declined a market expansion and reinvested in core product reliability",
		Outcome:   "Lost first-mover position but churn fell 40% and the expansion succeeded a year later",
		Relevance: 0.55,
	},
	{
		Case:      "Healthcare analytics startup, partnership entry",
		Decision:  "Entered a regulated market through a compliance-carrying partner instead of alone",
		Outcome:   "Slower margin growth but avoided an 18-month certification delay competitors absorbed",
		Relevance: 0.65,
	},
	{
		Case:      "Developer tools company, opportunistic pivot",
		Decision:  "Redirected the platform roadmap toward an emerging workload mid-year",
		Outcome:   "Captured the new segment but the disrupted roadmap cost two existing enterprise renewals",
		Relevance: 0.6,
	},
}

// pickAnalogues selects n distinct analogues using the injected generator,
// so the same seed surfaces the same precedents.
func pickAnalogues(rng *rand.Rand, n int) []Analogue {
	if n > len(analogueCatalog) {
		n = len(analogueCatalog)
	}
	idx := rng.Perm(len(analogueCatalog))[:n]

	out := make([]Analogue, 0, n)
	for _, i := range idx {
		out = append(out, analogueCatalog[i])
	}
	return out
}
