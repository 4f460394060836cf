// ABOUTME: Entity commands for campus-admin CLI
// ABOUTME: One command group per collection with list, get, create, update and delete

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/markalston/campus-admin/internal/resources"
	"github.com/spf13/cobra"
)

var errInvalidInput = errors.New("invalid input")

func init() {
	// Metadata only; commands resolve their collection against the app's catalog
	for _, res := range resources.NewCatalog(nil).Resources() {
		group := newResourceCmd(res)
		if res.Name() == "users" {
			addUserActions(group)
		}
		rootCmd.AddCommand(group)
	}
}

// newResourceCmd builds the command group for one collection
func newResourceCmd(res resources.Resource) *cobra.Command {
	name, singular := res.Name(), res.Singular()
	group := &cobra.Command{
		Use:   name,
		Short: "Manage " + strings.ToLower(res.Title()),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List " + name,
		Args:  cobra.NoArgs,
		Run: withApp(requireSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) int {
			return runList(ctx, a.resource(name), filterFromFlags(cmd, res.FacetName()), os.Stdout)
		})),
	}
	list.Flags().String("search", "", "Free-text search")
	list.Flags().String("status", resources.StatusAll, "Status: all, actif or inactif")
	if facet := res.FacetName(); facet != "" {
		list.Flags().String(facet, "", "Only "+name+" with this "+facet)
	}

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show one " + singular,
		Args:  cobra.ExactArgs(1),
		Run: withApp(requireSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) int {
			return runGet(ctx, a.resource(name), args[0], os.Stdout)
		})),
	}

	fields := &cobra.Command{
		Use:   "fields [ID]",
		Short: "Show the editable fields of a " + singular,
		Args:  cobra.MaximumNArgs(1),
		Run: withApp(requireSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) int {
			idArg := ""
			if len(args) == 1 {
				idArg = args[0]
			}
			return runFields(ctx, a.resource(name), idArg, os.Stdout)
		})),
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a " + singular,
		Long:  "Create a " + singular + " from --set key=value pairs, or interactively when none are given.",
		Args:  cobra.NoArgs,
		Run: withApp(requireSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) int {
			sets, _ := cmd.Flags().GetStringArray("set")
			return runSave(ctx, a.resource(name), "", sets, newPrompter(os.Stdin, os.Stderr), os.Stdout)
		})),
	}
	create.Flags().StringArray("set", nil, "Field value as key=value (repeatable)")

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update a " + singular,
		Long:  "Update a " + singular + ". Fields not given keep their current value.",
		Args:  cobra.ExactArgs(1),
		Run: withApp(requireSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) int {
			sets, _ := cmd.Flags().GetStringArray("set")
			return runSave(ctx, a.resource(name), args[0], sets, newPrompter(os.Stdin, os.Stderr), os.Stdout)
		})),
	}
	update.Flags().StringArray("set", nil, "Field value as key=value (repeatable)")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a " + singular,
		Args:  cobra.ExactArgs(1),
		Run: withApp(requireSession(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) int {
			yes, _ := cmd.Flags().GetBool("yes")
			return runDelete(ctx, a.resource(name), args[0], yes, newPrompter(os.Stdin, os.Stderr), os.Stdout)
		})),
	}
	del.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	group.AddCommand(list, get, fields, create, update, del)
	return group
}

// resource looks up a collection that is known to exist
func (a *app) resource(name string) resources.Resource {
	res, ok := a.catalog.Lookup(name)
	if !ok {
		panic("unknown resource " + name)
	}
	return res
}

// filterFromFlags reads --search, --status and the facet flag
func filterFromFlags(cmd *cobra.Command, facet string) resources.Filter {
	var f resources.Filter
	f.Search, _ = cmd.Flags().GetString("search")
	f.Status, _ = cmd.Flags().GetString("status")
	if facet != "" {
		f.Facet, _ = cmd.Flags().GetString(facet)
	}
	return f
}

// checkFilter rejects status and fixed-facet values that can never match
func checkFilter(res resources.Resource, f resources.Filter) error {
	switch strings.ToLower(f.Status) {
	case "", resources.StatusAll, resources.StatusActif, resources.StatusInactif:
	default:
		return fmt.Errorf("%w: --status must be all, actif or inactif, got %q", errInvalidInput, f.Status)
	}
	if f.Facet == "" {
		return nil
	}
	if fixed := res.Facets(nil); len(fixed) > 0 && !slices.Contains(fixed, f.Facet) {
		return fmt.Errorf("%w: --%s must be one of %s, got %q", errInvalidInput, res.FacetName(), strings.Join(fixed, ", "), f.Facet)
	}
	return nil
}

// runList lists, filters and prints a collection
func runList(ctx context.Context, res resources.Resource, f resources.Filter, w io.Writer) int {
	if err := checkFilter(res, f); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitRejected
	}

	rows, err := res.List(ctx)
	if err != nil {
		return reportError(w, err)
	}
	matched := f.Apply(rows)

	if format := OutputFormat(); format != formatText {
		return writeRows(w, format, matched)
	}
	if len(matched) == 0 {
		fmt.Fprintf(w, "No %s found.\n", res.Name())
		return exitOK
	}
	cells := make([][]string, len(matched))
	for i, r := range matched {
		cells[i] = r.Cells
	}
	fmt.Fprintln(w, renderTable(res.Columns(), cells))
	if f.IsZero() {
		fmt.Fprintf(w, "%d %s\n", len(rows), res.Name())
	} else {
		fmt.Fprintf(w, "%d of %d %s\n", len(matched), len(rows), res.Name())
	}
	return exitOK
}

// writeRows prints the underlying entities of rows as json or yaml
func writeRows(w io.Writer, format string, rows []resources.Row) int {
	items := make([]any, len(rows))
	for i, r := range rows {
		items[i] = r.Item
	}
	if err := writeStructured(w, format, items); err != nil {
		return reportError(w, err)
	}
	return exitOK
}

// runGet prints one entity
func runGet(ctx context.Context, res resources.Resource, idArg string, w io.Writer) int {
	id, err := parseID(idArg)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitRejected
	}
	row, err := res.Get(ctx, id)
	if err != nil {
		return reportError(w, err)
	}
	return writeRow(w, res, row)
}

func writeRow(w io.Writer, res resources.Resource, row resources.Row) int {
	if format := OutputFormat(); format != formatText {
		if err := writeStructured(w, format, row.Item); err != nil {
			return reportError(w, err)
		}
		return exitOK
	}
	fmt.Fprintln(w, formatRowHuman(res.Columns(), row))
	return exitOK
}

// formatRowHuman lays out a row as column/value pairs
func formatRowHuman(columns []string, row resources.Row) string {
	pairs := make([][2]string, 0, len(columns))
	for i, c := range columns {
		if i < len(row.Cells) {
			pairs = append(pairs, [2]string{c, row.Cells[i]})
		}
	}
	return renderKeyValues(pairs)
}

// runFields prints the editable fields, with current values when idArg is set
func runFields(ctx context.Context, res resources.Resource, idArg string, w io.Writer) int {
	var id int64
	if idArg != "" {
		var err error
		if id, err = parseID(idArg); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitRejected
		}
	}
	fields, err := res.Fields(ctx, id)
	if err != nil {
		return reportError(w, err)
	}
	return writeResult(w, fields, formatFieldsHuman)
}

func formatFieldsHuman(fields []resources.Field) string {
	rows := make([][]string, len(fields))
	for i, f := range fields {
		required := ""
		if f.Required {
			required = "yes"
		}
		rows[i] = []string{f.Key, f.Label, required, optionSummary(f.Options), f.Value}
	}
	return renderTable([]string{"Key", "Label", "Required", "Options", "Value"}, rows)
}

func optionSummary(opts []resources.Option) string {
	labels := make([]string, len(opts))
	for i, o := range opts {
		labels[i] = o.Label
	}
	return strings.Join(labels, ", ")
}

// runSave creates (empty idArg) or updates an entity from --set pairs or prompts
func runSave(ctx context.Context, res resources.Resource, idArg string, sets []string, p *prompter, w io.Writer) int {
	var id int64
	if idArg != "" {
		var err error
		if id, err = parseID(idArg); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitRejected
		}
	}

	values, err := parseSets(sets)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitRejected
	}
	if len(values) == 0 {
		if !p.interactive {
			fmt.Fprintf(w, "Error: no values given; use --set key=value (see: campus-admin %s fields)\n", res.Name())
			return exitRejected
		}
		fields, err := res.Fields(ctx, id)
		if err != nil {
			return reportError(w, err)
		}
		if values, err = promptFields(p, fields); err != nil {
			return reportError(w, err)
		}
	}

	row, err := res.Save(ctx, id, values)
	if err != nil {
		return reportError(w, err)
	}
	if OutputFormat() == formatText {
		verb := "Updated"
		if id == 0 {
			verb = "Created"
		}
		fmt.Fprintf(w, "%s %s %d\n", verb, res.Singular(), row.ID)
	}
	return writeRow(w, res, row)
}

// promptFields asks for each field; an empty answer keeps the shown value
func promptFields(p *prompter, fields []resources.Field) (map[string]string, error) {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		label := f.Label
		if len(f.Options) > 0 {
			label += " (" + optionSummary(f.Options) + ")"
		}
		if f.Value != "" {
			label += " [" + f.Value + "]"
		}
		answer, err := p.line(label)
		if err != nil {
			return nil, err
		}
		if answer = strings.TrimSpace(answer); answer != "" {
			values[f.Key] = answer
		}
	}
	return values, nil
}

// runDelete removes an entity after confirmation
func runDelete(ctx context.Context, res resources.Resource, idArg string, yes bool, p *prompter, w io.Writer) int {
	id, err := parseID(idArg)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitRejected
	}
	if !yes {
		if !p.interactive {
			fmt.Fprintln(w, "Error: refusing to delete without --yes")
			return exitRejected
		}
		if !p.confirm(fmt.Sprintf("Delete %s %d?", res.Singular(), id)) {
			fmt.Fprintln(w, "Aborted.")
			return exitRejected
		}
	}
	if err := res.Delete(ctx, id); err != nil {
		return reportError(w, err)
	}
	fmt.Fprintf(w, "Deleted %s %d\n", res.Singular(), id)
	return exitOK
}

// parseID parses a positive entity ID
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", errInvalidInput, s)
	}
	return id, nil
}

// parseSets turns key=value pairs into a map; later pairs win
func parseSets(sets []string) (map[string]string, error) {
	values := make(map[string]string, len(sets))
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: --set expects key=value, got %q", errInvalidInput, s)
		}
		values[k] = v
	}
	return values, nil
}
