// Package taxonomy is the single source of truth for the construction phase
// checklist: phase keys, display names, ordering and default sub-item lists.
// Every consumer (create, edit, view, reconcile) reads from here; the table
// is never duplicated per call site.
package taxonomy

import "fmt"

// PhaseKey identifies one of the seven fixed construction phases.
type PhaseKey string

const (
	LandPreConstruction  PhaseKey = "landPreConstruction"
	FoundationStructural PhaseKey = "foundationStructural"
	Superstructure       PhaseKey = "superstructure"
	InternalExternal     PhaseKey = "internalExternal"
	FinalInstallations   PhaseKey = "finalInstallations"
	TestingQuality       PhaseKey = "testingQuality"
	HandoverCompletion   PhaseKey = "handoverCompletion"
)

// PhaseDefinition describes one phase: its stable key, the display name
// persisted in phase rows, and the ordered sub-item names.
type PhaseDefinition struct {
	Key      PhaseKey
	Name     string
	SubItems []string
}

// phases holds the fixed, ordered phase table. Sub-item names are unique
// within their phase.
var phases = []PhaseDefinition{
	{
		Key:  LandPreConstruction,
		Name: "Land & Pre-Construction",
		SubItems: []string{
			"Legal Documentation",
			"Title Deed Verification",
			"Government Approvals & Permits",
			"Soil Testing & Surveying",
			"Geotechnical Soil Report",
			"Site Survey (Topography & Mapping)",
			"Architectural & Structural Planning",
			"Floor Plans & Site Layouts",
			"Structural Engineering Plans",
			"Environmental Clearance",
			"Municipality Approvals (Building Permit)",
			"Fire & Safety Approval",
			"Electricity & Water Supply Sanctions",
			"Project Cost Estimation & Budgeting",
			"Contractor Bidding & Tendering",
			"Material & Labor Cost Estimation",
			"Site Preparation & Demolition (if required)",
			"Land Leveling & Clearing",
			"Temporary Site Office Setup",
			"Demolition of Existing Structures",
		},
	},
	{
		Key:  FoundationStructural,
		Name: "Foundation & Structural",
		SubItems: []string{
			"Excavation & Groundwork",
			"Digging & Grading the Site",
			"Soil Treatment for Pests & Waterproofing",
			"Foundation Laying",
			"Footings & Pile Foundation",
			"Concrete Slabs & Columns",
			"Plinth Beam & Slab Work",
			"Reinforced Concrete Plinth",
			"Waterproofing & Curing",
		},
	},
	{
		Key:  Superstructure,
		Name: "Superstructure",
		SubItems: []string{
			"Structural Framing (Columns, Beams, Slabs)",
			"RCC (Reinforced Concrete Columns & Beams)",
			"Slab Construction for Each Floor",
			"Brickwork & Walls Construction",
			"Exterior & Interior Wall Masonry",
			"Partition Walls in Apartments",
			"Roof Slab Construction",
			"Casting of Roof Slabs",
			"Waterproofing the Roof",
		},
	},
	{
		Key:  InternalExternal,
		Name: "Internal & External Works",
		SubItems: []string{
			"Plumbing & Electrical Rough-In",
			"Underground Plumbing & Drainage",
			"Electrical Wiring & Ducting Installation",
			"HVAC & Fire Safety Installation",
			"Air Conditioning & Ventilation Systems",
			"Fire Safety Sprinklers & Smoke Detectors",
			"Plastering & Wall Finishing",
			"Interior Wall Plastering",
			"Exterior Wall Rendering",
			"Windows & Doors Installation",
			"Main Door, Balcony Doors",
			"Window Fittings",
			"Flooring & Tile Work",
			"Marble, Tiles, or Wooden Flooring",
			"Bathroom & Kitchen Tiling",
			"Painting & Exterior Finishing",
			"Primer & Painting (Interior & Exterior)",
			"Textured Finishing for Facade",
		},
	},
	{
		Key:  FinalInstallations,
		Name: "Final Installations",
		SubItems: []string{
			"False Ceiling & Decorative Work",
			"POP False Ceilings & LED Lighting Setup",
			"Cabinetry & Fixtures Installation",
			"Kitchen & Bathroom Cabinets",
			"Wardrobes & Storage Units",
			"Sanitary Fittings & Plumbing Completion",
			"Sink, Faucets, Shower, Toilet Installation",
			"Drainage & Sewage Connectivity",
			"Final Electrical Fittings",
			"Switchboards, Light Fixtures",
			"Smart Home Automation (if applicable)",
		},
	},
	{
		Key:  TestingQuality,
		Name: "Testing & Quality",
		SubItems: []string{
			"Waterproofing & Leakage Tests",
			"Bathroom, Kitchen, and Roof Checks",
			"Electrical & Fire Safety Testing",
			"Load Testing for Electrical Systems",
			"Fire Alarm & Safety Compliance Check",
			"Snag List & Final Touch-Ups",
			"Fixing Minor Issues Before Handover",
		},
	},
	{
		Key:  HandoverCompletion,
		Name: "Handover",
		SubItems: []string{
			"Final Inspection & Walkthrough",
			"Builder Walkthrough with Buyer",
			"Final Approval from Authorities",
			"Handover of Property",
			"Keys Given to Buyer",
			"Documentation (Occupancy Certificate, Warranty Papers, etc.)",
			"Post-Handover Support & Maintenance",
			"6-Months to 1-Year Maintenance Period",
		},
	},
}

var (
	byKey  = make(map[PhaseKey]int, len(phases))
	byName = make(map[string]int, len(phases))
)

//nolint:gochecknoinits // Index the fixed table once.
func init() {
	for i := range phases {
		byKey[phases[i].Key] = i
		byName[phases[i].Name] = i
	}
}

// Phases returns the seven phase definitions in canonical order.
func Phases() []PhaseDefinition {
	out := make([]PhaseDefinition, len(phases))
	copy(out, phases)
	return out
}

// Get returns the definition for a phase key.
func Get(key PhaseKey) (PhaseDefinition, error) {
	i, ok := byKey[key]
	if !ok {
		return PhaseDefinition{}, fmt.Errorf("unknown phase key %q", key)
	}
	return phases[i], nil
}

// GetByName returns the definition whose display name matches the persisted
// phase_name column.
func GetByName(name string) (PhaseDefinition, error) {
	i, ok := byName[name]
	if !ok {
		return PhaseDefinition{}, fmt.Errorf("unknown phase %q", name)
	}
	return phases[i], nil
}

// DefaultItems returns the fully-defaulted checklist for a phase definition.
func DefaultItems(def PhaseDefinition) []Item {
	items := make([]Item, 0, len(def.SubItems))
	for _, name := range def.SubItems {
		items = append(items, DefaultItem(name))
	}
	return items
}
