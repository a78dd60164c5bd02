package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName       = "bool"
	toggleFlagImplicitValue  = "true"
	toggleFlagAcceptedValues = "true, false, yes, no, on, off, y, n, 1, 0"
	toggleFlagInvalidFormat  = "invalid value %q for --%s; accepted values: %s"
)

var toggleLiterals = map[string]bool{
	"true": true, "t": true, "yes": true, "y": true, "on": true, "1": true,
	"false": false, "f": false, "no": false, "n": false, "off": false, "0": false,
}

func parseToggle(input string) (bool, bool) {
	value, known := toggleLiterals[strings.ToLower(strings.TrimSpace(input))]
	return value, known
}

// toggleFlagValue is a boolean flag that also accepts yes/no style literals,
// either joined with "=" or as the following argument.
type toggleFlagValue struct {
	target *bool
	name   string
}

func (value *toggleFlagValue) Set(input string) error {
	if strings.TrimSpace(input) == "" {
		input = toggleFlagImplicitValue
	}
	parsed, known := parseToggle(input)
	if !known {
		return fmt.Errorf(toggleFlagInvalidFormat, input, value.name, toggleFlagAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *toggleFlagValue) String() string {
	if value.target == nil {
		return "false"
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleFlagValue) Type() string {
	return toggleFlagTypeName
}

// registerBooleanFlag adds a toggle flag bound to target.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&toggleFlagValue{target: target, name: name}, name, usage)
	flag := flagSet.Lookup(name)
	flag.DefValue = strconv.FormatBool(defaultValue)
	flag.NoOptDefVal = toggleFlagImplicitValue
}

// normalizeBooleanFlagArguments joins "--flag yes" into "--flag=yes" for every
// toggle flag known to command or its subcommands. pflag would otherwise read
// the literal as a positional argument.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	toggles := map[string]struct{}{}
	collectToggleFlags(command, toggles)

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == "--" {
			return append(normalized, arguments[index:]...)
		}
		name, isLongFlag := strings.CutPrefix(argument, "--")
		_, isToggle := toggles[name]
		if isLongFlag && isToggle && index+1 < len(arguments) {
			if _, known := parseToggle(arguments[index+1]); known {
				normalized = append(normalized, argument+"="+arguments[index+1])
				index++
				continue
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func collectToggleFlags(command *cobra.Command, names map[string]struct{}) {
	visit := func(flag *pflag.Flag) {
		if _, isToggle := flag.Value.(*toggleFlagValue); isToggle {
			names[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(visit)
	command.Flags().VisitAll(visit)
	for _, child := range command.Commands() {
		collectToggleFlags(child, names)
	}
}
