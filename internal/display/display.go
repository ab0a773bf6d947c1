// Package display provides human-readable names for machine codes.
//
// Rule: code is for machines, words are for humans. Use these functions
// in CLI output, markdown reports, and logs. Keep raw codes for YAML
// fields, map keys, and equality comparisons.
package display

// --- Patient types ---

var patientTypes = map[string]string{
	"stroke": "Stroke",
	"tia":    "Transient Ischaemic Attack",
	"neuro":  "Complex Neurological",
	"other":  "Other",
}

// PatientType returns the human-readable name for a patient type code.
// Unknown codes are returned as-is.
func PatientType(code string) string {
	if name, ok := patientTypes[code]; ok {
		return name
	}
	return code
}

// --- Units ---

var units = map[string]string{
	"asu":   "Acute Stroke Unit",
	"rehab": "Rehabilitation Unit",
}

// Unit returns the human-readable name for a unit code.
func Unit(code string) string {
	if name, ok := units[code]; ok {
		return name
	}
	return code
}

// UnitWithCode returns "Acute Stroke Unit (asu)" format.
func UnitWithCode(code string) string {
	if name, ok := units[code]; ok {
		return name + " (" + code + ")"
	}
	return code
}

// --- Destinations ---

var destinations = map[string]string{
	"rehab": "Rehabilitation Unit",
	"esd":   "Early Supported Discharge",
	"other": "Other Destination",
}

// Destination returns the human-readable name for a routing destination.
func Destination(code string) string {
	if name, ok := destinations[code]; ok {
		return name
	}
	return code
}
