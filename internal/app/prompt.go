package app

import (
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"trip_planner/internal/domain"
)

// Fallbacks used whenever a context category came back empty.
const (
	FallbackPlaces  = "Main attractions"
	FallbackDining  = "Local food spots"
	FallbackLodging = "Standard hotels"

	fallbackCuisine     = "Local"
	fallbackLocation    = "Nearby"
	fallbackLodgingType = "Hotel"
	fallbackSource      = "the traveller's home city"
	fallbackTransport   = "the most convenient mode of transport"
	fallbackPreferences = "a balanced mix of sightseeing, food and culture"
	maxFieldRunes       = 200
)

const simplePrompt = `SYSTEM:
You are a professional travel planner.
Create a detailed, day-by-day itinerary for a trip to {{.Destination}}.
You must account for a TOTAL budget of ₹{{.Budget}} ({{.Tier}} Budget) for {{.People}} people.
The itinerary should be practical, listing specific places to visit, estimated costs, and timing.
IMPORTANT: All costs must be in Indian Rupees (₹). Do not use US dollars or any other currency symbol.

USER:
Destination: {{.Destination}}
Duration: {{.Days}} days
Travelers: {{.People}} person(s)
Budget Limit: ₹{{.Budget}} ({{.Tier}})
Top Places to Include (if fitting): {{.Places}}
Popular Dining Spots (if fitting): {{.Dining}}
Suggested Accommodation (if fitting): {{.Lodging}}

OUTPUT FORMAT:
Provide a structured response:
1. Trip Overview (Total estimated cost, vibe)
2. Day-by-Day Itinerary (Morning, Afternoon, Evening for each day)
3. Budget Breakdown
4. Travel Tips
` + formattingNote

const extendedPrompt = `SYSTEM:
You are a professional travel planner.
Create a detailed, day-by-day itinerary for a trip from {{.Source}} to {{.Destination}}.
You must account for a TOTAL budget of ₹{{.Budget}} ({{.Tier}} Budget) for {{.People}} people.
The itinerary should be practical, listing specific places to visit, estimated costs, and timing.
IMPORTANT: All costs must be in Indian Rupees (₹). Do not use US dollars or any other currency symbol.
IMPORTANT: Include transportation details from {{.Source}} to {{.Destination}} using {{.Transport}}.
IMPORTANT: Focus on activities and places that match these preferences: {{.Preferences}}.

USER:
Source: {{.Source}}
Destination: {{.Destination}}
Duration: {{.Days}} days
Travelers: {{.People}} person(s)
Budget Limit: ₹{{.Budget}} ({{.Tier}})
Transportation: {{.Transport}}
Preferences: {{.Preferences}}
Top Places to Include (if fitting): {{.Places}}
Popular Dining Spots (if fitting): {{.Dining}}
Suggested Accommodation (if fitting): {{.Lodging}}

OUTPUT FORMAT:
Provide a structured response:
1. Trip Overview (Total estimated cost, vibe, travel style based on preferences)
2. Transportation (How to reach {{.Destination}} from {{.Source}} via {{.Transport}}, with estimated costs and duration)
3. Day-by-Day Itinerary (Morning, Afternoon, Evening for each day, focusing on {{.Preferences}} activities)
4. Budget Breakdown (Transportation, Accommodation, Food, Activities, Miscellaneous)
5. Travel Tips (specific to {{.Transport}} travel and {{.Preferences}} experiences)
` + formattingNote

const formattingNote = `
Do not use markdown formatting like bolding (**) or headers (##) excessively as this is a plain text stream, but you can use simple formatting like:
DAY 1: [Title]
- Morning: ...
`

var (
	simpleTmpl   = template.Must(template.New("simple").Parse(simplePrompt))
	extendedTmpl = template.Must(template.New("extended").Parse(extendedPrompt))
)

type promptView struct {
	Source, Destination, Transport, Preferences string
	Budget, People, Days                        int
	Tier                                        domain.BudgetTier
	Places, Dining, Lodging                     string
}

// CompilePrompt renders the generation prompt. Output depends only on its inputs.
func CompilePrompt(plan domain.Plan, bundle domain.ContextBundle) (string, error) {
	v := promptView{
		Destination: clean(plan.Destination),
		Budget:      plan.Budget.Int(),
		People:      plan.People.Int(),
		Days:        plan.Days.Int(),
		Tier:        plan.Tier,
		Places:      summarizePlaces(bundle.Places),
		Dining:      summarizeDining(bundle.Dining),
		Lodging:     summarizeLodging(bundle.Lodging),
	}

	tmpl := simpleTmpl
	if plan.Extended() {
		tmpl = extendedTmpl
		v.Source = orDefault(clean(plan.Source), fallbackSource)
		v.Transport = orDefault(clean(plan.TransportMode), fallbackTransport)
		v.Preferences = orDefault(clean(plan.Preferences), fallbackPreferences)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, v); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", tmpl.Name(), err)
	}
	return b.String(), nil
}

func summarizePlaces(ps []domain.Place) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		if n := clean(p.Name); n != "" {
			parts = append(parts, n)
		}
	}
	return joinOr(parts, FallbackPlaces)
}

func summarizeDining(ds []domain.Diner) string {
	parts := make([]string, 0, len(ds))
	for _, d := range ds {
		n := clean(d.Name)
		if n == "" {
			continue
		}
		where := orDefault(clean(d.Address), orDefault(clean(d.City), fallbackLocation))
		parts = append(parts, fmt.Sprintf("%s (%s - %s)", n, orDefault(clean(d.Cuisine), fallbackCuisine), where))
	}
	return joinOr(parts, FallbackDining)
}

func summarizeLodging(ls []domain.Lodging) string {
	parts := make([]string, 0, len(ls))
	for _, l := range ls {
		n := clean(l.Name)
		if n == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%s - %s)", n, orDefault(clean(l.Type), fallbackLodgingType), orDefault(clean(l.City), fallbackLocation)))
	}
	return joinOr(parts, FallbackLodging)
}

func joinOr(parts []string, fallback string) string {
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, ", ")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// clean flattens a free-text value onto one line, drops '$' so the prompt
// only ever names rupees, and caps its length.
func clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	n := 0
	for _, r := range s {
		if n >= maxFieldRunes {
			break
		}
		switch {
		case r == '$':
			continue
		case unicode.IsSpace(r) || unicode.IsControl(r):
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
			n++
		}
		space = false
		b.WriteRune(r)
		n++
	}
	return b.String()
}
