package domain

// Scenario is the macro outlook biasing both the statement simulation and the
// price-move distribution.
type Scenario int

const (
	ScenarioVeryPessimistic Scenario = iota - 2
	ScenarioPessimistic
	ScenarioNeutral
	ScenarioOptimistic
	ScenarioVeryOptimistic
)

// scenario string constants to avoid magic strings
const (
	scenarioStringVeryPessimistic = "very_pessimistic"
	scenarioStringPessimistic     = "pessimistic"
	scenarioStringNeutral         = "neutral"
	scenarioStringOptimistic      = "optimistic"
	scenarioStringVeryOptimistic  = "very_optimistic"
)

// Shift returns the integer offset applied to driver distributions, -2..2.
func (s Scenario) Shift() int {
	return int(s)
}

// Valid reports whether s is one of the five known scenarios.
func (s Scenario) Valid() bool {
	return s >= ScenarioVeryPessimistic && s <= ScenarioVeryOptimistic
}

// String returns the string representation of the scenario.
func (s Scenario) String() string {
	switch s {
	case ScenarioVeryPessimistic:
		return scenarioStringVeryPessimistic
	case ScenarioPessimistic:
		return scenarioStringPessimistic
	case ScenarioNeutral:
		return scenarioStringNeutral
	case ScenarioOptimistic:
		return scenarioStringOptimistic
	case ScenarioVeryOptimistic:
		return scenarioStringVeryOptimistic
	default:
		return "unknown"
	}
}

// ParseScenario converts a string into a Scenario, falling back to neutral
// for unknown input.
func ParseScenario(s string) (Scenario, bool) {
	switch s {
	case scenarioStringVeryPessimistic:
		return ScenarioVeryPessimistic, true
	case scenarioStringPessimistic:
		return ScenarioPessimistic, true
	case scenarioStringNeutral:
		return ScenarioNeutral, true
	case scenarioStringOptimistic:
		return ScenarioOptimistic, true
	case scenarioStringVeryOptimistic:
		return ScenarioVeryOptimistic, true
	}
	return ScenarioNeutral, false
}

// Scenarios lists all known scenarios in ascending order.
func Scenarios() []Scenario {
	return []Scenario{
		ScenarioVeryPessimistic,
		ScenarioPessimistic,
		ScenarioNeutral,
		ScenarioOptimistic,
		ScenarioVeryOptimistic,
	}
}
