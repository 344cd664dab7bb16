package core

// Verification modes selectable globally or per form.
const (
	ModeStrict     = "strict"
	ModePermissive = "permissive"
	ModeCustom     = "custom"
)

const (
	defaultMinSendex = 0.4
	strictMinSendex  = 0.7
)

// customSettings is the slice of either GlobalSettings or FormSettings that
// the custom mode consults.
type customSettings struct {
	allowUndeliverable bool
	allowRisky         bool
	allowUnknown       bool
	minSendex          string
}

// ResolvePolicy builds the effective acceptance policy from the global
// configuration and the per-submission overrides. A non-empty form mode
// other than "disabled" replaces the global mode entirely, including which
// custom flags and sendex source are consulted. The function is pure: same
// inputs always yield the same policy.
func ResolvePolicy(global GlobalSettings, form FormSettings) Policy {
	policy := Policy{
		ValidResultTypes: []string{ResultDeliverable},
		MinSendex:        defaultMinSendex,
	}

	mode := global.Mode
	custom := customSettings{
		allowUndeliverable: global.AllowUndeliverable,
		allowRisky:         global.AllowRisky,
		allowUnknown:       global.AllowUnknown,
		minSendex:          global.MinSendex,
	}

	if form.Mode != "" && form.Mode != ModeDisabled {
		mode = form.Mode
		custom = customSettings{
			allowUndeliverable: form.AllowUndeliverable,
			allowRisky:         form.AllowRisky,
			allowUnknown:       form.AllowUnknown,
			minSendex:          form.MinSendex,
		}
	}

	switch mode {
	case ModeStrict:
		policy.MinSendex = strictMinSendex
	case ModePermissive:
		policy.ValidResultTypes = []string{ResultDeliverable, ResultRisky, ResultUnknown}
	case ModeCustom:
		if custom.allowUndeliverable {
			policy.ValidResultTypes = append(policy.ValidResultTypes, ResultUndeliverable)
		}
		if custom.allowRisky {
			policy.ValidResultTypes = append(policy.ValidResultTypes, ResultRisky)
		}
		if custom.allowUnknown {
			policy.ValidResultTypes = append(policy.ValidResultTypes, ResultUnknown)
		}
		// An out-of-range or non-numeric sendex setting keeps the default.
		if custom.minSendex != "" {
			if v, ok := ParseSendex(custom.minSendex); ok {
				policy.MinSendex = v
			}
		}
	}

	return policy
}
