package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/crm-lineage/internal/domain"
	"github.com/heartmarshall/crm-lineage/internal/service/lineage"
)

// parseRef reads an entity reference written as type:id (type#id also works).
func parseRef(s string) (domain.EntityRef, error) {
	i := strings.LastIndexAny(s, ":#")
	if i <= 0 || i == len(s)-1 {
		return domain.EntityRef{}, fmt.Errorf("%w: entity %q must look like type:id", domain.ErrInvalidArgument, s)
	}

	id, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil || id <= 0 {
		return domain.EntityRef{}, fmt.Errorf("%w: entity %q has an invalid id", domain.ErrInvalidArgument, s)
	}

	return domain.EntityRef{Type: domain.EntityType(s[:i]).Normalize(), ID: id}, nil
}

func (r *runner) newRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record <source> <target>",
		Short: "Record that source was converted into target",
		Example: `  lineage record invite:10 lead:55 --user 3
  lineage record lead:55 projet:200 -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := parseRef(args[0])
			if err != nil {
				return err
			}
			target, err := parseRef(args[1])
			if err != nil {
				return err
			}

			return r.run(cmd, func(ctx context.Context, t Tracker, out *printer) error {
				rec, err := t.RecordConversion(ctx, lineage.RecordConversionInput{
					SourceType: source.Type,
					SourceID:   source.ID,
					TargetType: target.Type,
					TargetID:   target.ID,
				})
				if err != nil {
					return err
				}
				return out.record(rec)
			})
		},
	}
}

// importLine is one JSON object of the import stream.
type importLine struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	ConvertedBy *int64 `json:"converted_by"`
}

// readImport decodes a stream of importLine objects.
func readImport(r io.Reader) ([]lineage.RecordConversionInput, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var inputs []lineage.RecordConversionInput
	for n := 1; ; n++ {
		var line importLine
		if err := dec.Decode(&line); err != nil {
			if errors.Is(err, io.EOF) {
				return inputs, nil
			}
			return nil, fmt.Errorf("%w: import item %d: %v", domain.ErrInvalidArgument, n, err)
		}

		source, err := parseRef(line.Source)
		if err != nil {
			return nil, fmt.Errorf("import item %d: %w", n, err)
		}
		target, err := parseRef(line.Target)
		if err != nil {
			return nil, fmt.Errorf("import item %d: %w", n, err)
		}

		inputs = append(inputs, lineage.RecordConversionInput{
			SourceType:  source.Type,
			SourceID:    source.ID,
			TargetType:  target.Type,
			TargetID:    target.ID,
			ConvertedBy: line.ConvertedBy,
		})
	}
}

func (r *runner) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Record a batch of conversions atomically",
		Long: `Reads JSON objects {"source": "invite:10", "target": "lead:55", "converted_by": 3}
from file (or stdin when file is "-" or omitted) and records them in a single
transaction: either every conversion is stored or none is.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			inputs, err := readImport(in)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				return fmt.Errorf("%w: nothing to import", domain.ErrInvalidArgument)
			}

			return r.run(cmd, func(ctx context.Context, t Tracker, out *printer) error {
				recs, err := t.RecordConversions(ctx, inputs)
				if err != nil {
					return err
				}
				return out.records(recs)
			})
		},
	}
}

func (r *runner) newChainCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "chain <entity>",
		Aliases: []string{"lineage"},
		Short:   "Show the conversions that led to an entity, oldest first",
		Example: `  lineage chain projet:200`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			return r.run(cmd, func(ctx context.Context, t Tracker, out *printer) error {
				c, err := t.GetLineageChain(ctx, ref)
				if err != nil {
					return err
				}
				return out.chain(c)
			})
		},
	}
}

func (r *runner) newDescendantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "descendants <entity>",
		Short:   "Show what an entity was converted into, following the latest conversion",
		Example: `  lineage descendants invite:10`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}
			return r.run(cmd, func(ctx context.Context, t Tracker, out *printer) error {
				c, err := t.GetDescendantChain(ctx, ref)
				if err != nil {
					return err
				}
				return out.chain(c)
			})
		},
	}
}

// refAndType parses the <entity> <type> argument pair.
func refAndType(args []string) (domain.EntityRef, domain.EntityType, error) {
	ref, err := parseRef(args[0])
	if err != nil {
		return domain.EntityRef{}, "", err
	}
	return ref, domain.EntityType(args[1]).Normalize(), nil
}

func (r *runner) newHasTargetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "has-target <entity> <target-type>",
		Short:   "Report whether an entity was ever converted into the given type",
		Example: `  lineage has-target lead:55 projet`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, other, err := refAndType(args)
			if err != nil {
				return err
			}
			return r.run(cmd, func(ctx context.Context, t Tracker, out *printer) error {
				ok, err := t.HasConvertedTo(ctx, ref, other)
				if err != nil {
					return err
				}
				return out.answer(ok)
			})
		},
	}
}

func (r *runner) newHasSourceCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "has-source <entity> <source-type>",
		Short:   "Report whether an entity was ever produced from the given type",
		Example: `  lineage has-source lead:55 invite`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, other, err := refAndType(args)
			if err != nil {
				return err
			}
			return r.run(cmd, func(ctx context.Context, t Tracker, out *printer) error {
				ok, err := t.WasConvertedFrom(ctx, ref, other)
				if err != nil {
					return err
				}
				return out.answer(ok)
			})
		},
	}
}

func (r *runner) newTargetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "target <entity> <target-type>",
		Short:   "Show the entity most recently produced from an entity",
		Example: `  lineage target lead:55 projet`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, other, err := refAndType(args)
			if err != nil {
				return err
			}
			return r.run(cmd, func(ctx context.Context, t Tracker, out *printer) error {
				e, err := t.GetConvertedTarget(ctx, ref, other)
				if err != nil {
					return err
				}
				return out.entity(e)
			})
		},
	}
}

func (r *runner) newSourceCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "source <entity> <source-type>",
		Short:   "Show the entity an entity was most recently produced from",
		Example: `  lineage source projet:200 lead`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, other, err := refAndType(args)
			if err != nil {
				return err
			}
			return r.run(cmd, func(ctx context.Context, t Tracker, out *printer) error {
				e, err := t.GetConvertedSource(ctx, ref, other)
				if err != nil {
					return err
				}
				return out.entity(e)
			})
		},
	}
}

func (r *runner) newHistoryCmd() *cobra.Command {
	var (
		direction string
		otherType string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "history <entity>",
		Short: "List the conversion records touching an entity, newest first",
		Example: `  lineage history lead:55
  lineage history lead:55 --direction out --other-type projet --limit 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseRef(args[0])
			if err != nil {
				return err
			}

			input := lineage.ListConversionsInput{
				Entity:    ref,
				OtherType: domain.EntityType(otherType).Normalize(),
				Limit:     limit,
			}
			if direction != "" {
				d, err := domain.ParseDirection(direction)
				if err != nil {
					return err
				}
				input.Direction = &d
			}

			return r.run(cmd, func(ctx context.Context, t Tracker, out *printer) error {
				entries, err := t.ListConversions(ctx, input)
				if err != nil {
					return err
				}
				return out.history(entries)
			})
		},
	}

	cmd.Flags().StringVarP(&direction, "direction", "d", "", "only records where the entity is the source (out) or the target (in)")
	cmd.Flags().StringVar(&otherType, "other-type", "", "only records whose opposite end has this type (requires --direction)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of records (0 = all)")

	_ = cmd.RegisterFlagCompletionFunc("direction", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"in", "out"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (r *runner) newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered entity types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.run(cmd, func(_ context.Context, t Tracker, out *printer) error {
				return out.types(t.KnownTypes())
			})
		},
	}
}
