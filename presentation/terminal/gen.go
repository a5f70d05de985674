package terminal

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shopqa/application/datagen"
)

func (t *TerminalInterface) genCommand() *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:       "gen <user|contact|card|product|email|password|string|number|date> [args]",
		Short:     "Print a generated test entity as JSON",
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: []string{"user", "contact", "card", "product", "email", "password", "string", "number", "date"},
		RunE: func(cmd *cobra.Command, args []string) error {
			g := datagen.NewRandom()
			if seed != 0 {
				g = datagen.New(seed)
			}

			v, err := generate(g, args[0], args[1:])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for a reproducible value (0 = random)")
	return cmd
}

func generate(g *datagen.Generator, kind string, args []string) (any, error) {
	ints := func(defaults ...int) ([]int, error) {
		out := append([]int(nil), defaults...)
		for i, a := range args {
			if i >= len(out) {
				return nil, fmt.Errorf("%s takes at most %d arguments", kind, len(defaults))
			}
			n, err := strconv.Atoi(a)
			if err != nil {
				return nil, fmt.Errorf("%s: argument %q is not a number", kind, a)
			}
			out[i] = n
		}
		return out, nil
	}

	switch kind {
	case "user":
		return g.User(), nil
	case "contact":
		return g.ContactMessage(), nil
	case "card":
		return g.PaymentCard(), nil
	case "product":
		return g.Product(), nil
	case "email":
		return g.Email(), nil
	case "date":
		return g.FutureDate(), nil
	case "password":
		n, err := ints(datagen.MinPasswordLength)
		if err != nil {
			return nil, err
		}
		return g.Password(n[0]), nil
	case "string":
		n, err := ints(10)
		if err != nil {
			return nil, err
		}
		return g.String(n[0]), nil
	case "number":
		n, err := ints(1, 100)
		if err != nil {
			return nil, err
		}
		return g.Number(n[0], n[1]), nil
	default:
		return nil, fmt.Errorf("unknown entity %q", kind)
	}
}
