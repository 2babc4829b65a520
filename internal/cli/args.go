package cli

import (
	"strconv"
	"strings"
)

type flagSet map[string]string

// parseFlags splits --name=value arguments from the positional remainder.
func parseFlags(args []string) (flagSet, []string) {
	flags := flagSet{}
	positional := make([]string, 0, len(args))
	for _, arg := range args {
		if name, value, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(name, "--") {
			flags[strings.TrimPrefix(name, "--")] = strings.TrimSpace(value)
			continue
		}
		positional = append(positional, arg)
	}
	return flags, positional
}

func (f flagSet) str(name, fallback string) string {
	if value, ok := f[name]; ok && value != "" {
		return value
	}
	return fallback
}

func (f flagSet) num(name string, fallback int) int {
	value, ok := f[name]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func normalizeInput(args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) == "--" {
		args = args[1:]
	}
	return strings.TrimSpace(strings.Join(args, " "))
}
