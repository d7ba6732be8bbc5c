package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "osctl",
	Short:         "Service order CLI",
	Long:          "osctl lists, selects and prints maintenance service orders through the service-orders API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("OSCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("server", "http://localhost:8080", "API base URL")
	rootCmd.PersistentFlags().Duration("timeout", 15*time.Second, "request timeout")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(ordersCmd())
	rootCmd.AddCommand(selectCmd())
	rootCmd.AddCommand(printCmd())
	rootCmd.AddCommand(dashboardCmd())
}

func client() *apiClient {
	return newAPIClient(viper.GetString("server"), viper.GetDuration("timeout"))
}

func ordersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "orders", Short: "Browse service orders"}
	cmd.AddCommand(ordersListCmd())
	cmd.AddCommand(ordersShowCmd())
	return cmd
}

func ordersListCmd() *cobra.Command {
	var text, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders matching the current filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if cmd.Flags().Changed("q") {
				q.Set("q", text)
			}
			if cmd.Flags().Changed("status") {
				q.Set("status", status)
			}
			var list orderList
			if err := client().do(cmd.Context(), "GET", "/orders", q, nil, &list); err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(list)
			}
			selected := make(map[string]bool, len(list.Selected))
			for _, id := range list.Selected {
				selected[id] = true
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"", "ID", "Abertura", "Descrição", "Prioridade", "Status"})
			for _, o := range list.Orders {
				mark := ""
				if selected[o.ID] {
					mark = "x"
				}
				tw.AppendRow(table.Row{mark, o.ID, o.OpeningDate.Local().Format("02/01/2006 15:04"), o.Description, o.PriorityLabel, o.StatusLabel})
			}
			tw.AppendFooter(table.Row{"", fmt.Sprintf("%d orders", len(list.Orders)), "", fmt.Sprintf("filter: %q / %s", list.Query, list.Status), "", fmt.Sprintf("%d selected", len(list.Selected))})
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "q", "", "search description or id")
	cmd.Flags().StringVar(&status, "status", "", "status code or label, or ALL")
	return cmd
}

func ordersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var o order
			if err := client().do(cmd.Context(), "GET", "/orders/"+url.PathEscape(args[0]), nil, nil, &o); err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(o)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendRows([]table.Row{
				{"ID", o.ID},
				{"Abertura", o.OpeningDate.Local().Format(time.RFC3339)},
				{"Aceite", formatOptional(o.AcceptanceDate)},
				{"Fechamento", formatOptional(o.ClosingDate)},
				{"Solicitante", o.RequesterName},
				{"Descrição", o.Description},
				{"Prioridade", o.PriorityLabel},
				{"Status", o.StatusLabel},
				{"Equipe", o.TeamID},
				{"Técnico", o.ProfessionalID},
				{"Diagnóstico", o.AIDiagnosis},
			})
			tw.Render()
			return nil
		},
	}
}

func selectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Manage the print selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sel selection
			if err := client().do(cmd.Context(), "GET", "/selection", nil, nil, &sel); err != nil {
				return err
			}
			return printSelection(sel)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <id>...",
		Short: "Toggle orders in the selection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sel selection
			for _, id := range args {
				if err := client().do(cmd.Context(), "POST", "/selection/toggle", nil, map[string]string{"orderId": id}, &sel); err != nil {
					return err
				}
			}
			return printSelection(sel)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Select every visible order, or clear if already selected",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sel selection
			if err := client().do(cmd.Context(), "POST", "/selection/toggle-all", nil, nil, &sel); err != nil {
				return err
			}
			return printSelection(sel)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear the selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return client().do(cmd.Context(), "DELETE", "/selection", nil, nil, nil)
		},
	})
	return cmd
}

func printCmd() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "print [id...]",
		Short: "Render work orders for the selection or the given ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			var body any
			if len(args) > 0 {
				body = map[string][]string{"orderIds": args}
			}
			raw, _, err := client().raw(cmd.Context(), "POST", "/print", url.Values{"format": {format}}, body)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = os.Stdout.Write(raw)
				return err
			}
			return os.WriteFile(output, raw, 0o644)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "html, text or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show backlog statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var d dashboard
			if err := client().do(cmd.Context(), "GET", "/dashboard", nil, nil, &d); err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(d)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Total", "Executadas", "Fila/Espera", "Em Andamento"})
			tw.AppendRow(table.Row{d.Total, d.Executed, d.Pending, d.InProgress})
			tw.Render()

			breakdown := table.NewWriter()
			breakdown.SetOutputMirror(os.Stdout)
			breakdown.AppendHeader(table.Row{"Grupo", "Valor", "Qtd"})
			for _, k := range sortedKeys(d.ByStatus) {
				breakdown.AppendRow(table.Row{"status", k, d.ByStatus[k]})
			}
			for _, k := range sortedKeys(d.ByPriority) {
				breakdown.AppendRow(table.Row{"prioridade", k, d.ByPriority[k]})
			}
			breakdown.Render()
			return nil
		},
	}
}

func printSelection(sel selection) error {
	if viper.GetBool("json") {
		return printJSON(sel)
	}
	if len(sel.Selected) == 0 {
		fmt.Println("no orders selected")
		return nil
	}
	fmt.Println(strings.Join(sel.Selected, "\n"))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.RFC3339)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

