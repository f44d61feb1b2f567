package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	platformmetrics "docflow/internal/platform/metrics"
	"docflow/internal/workflow/metrics"
	"docflow/internal/workflow/models"
	"docflow/internal/workflow/service/registry"
	"docflow/internal/workflow/store/repository"
	"docflow/pkg/platform/audit/publisher"
	auditmemory "docflow/pkg/platform/audit/store/memory"
	"docflow/pkg/requestcontext"
)

type admitOptions struct {
	count     int
	reset     bool
	at        string
	asJSON    bool
	auditTail int
	parties   partyFlags
}

// admitReport is the machine-readable output of the admit command.
type admitReport struct {
	Results []admitResult            `json:"results"`
	Stats   registry.Stats           `json:"stats"`
	Audit   map[string]int           `json:"audit"`
	Metrics []platformmetrics.Sample `json:"metrics"`
	Recent  []auditEntry             `json:"recent_audit,omitempty"`
}

type auditEntry struct {
	Action   string `json:"action"`
	Subject  string `json:"subject,omitempty"`
	Party    string `json:"party,omitempty"`
	Decision string `json:"decision,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type admitResult struct {
	Document models.DocumentSnapshot `json:"document"`
	Admitted bool                    `json:"admitted"`
	Signed   bool                    `json:"fully_signed"`
	Reason   string                  `json:"reason,omitempty"`
}

func admitCmd(g *globals) *cobra.Command {
	opts := admitOptions{}
	cmd := &cobra.Command{
		Use:   "admit",
		Short: "Draft documents between two parties and admit them",
		Long: `Creates --count documents from a primary party to a secondary party and
admits each one to a fresh registry. With --reset each admitted document has
its signatures cleared so it stays open and counts against the ceilings.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdmit(cmd, g, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.count, "count", "n", 1, "Number of documents to admit")
	cmd.Flags().BoolVar(&opts.reset, "reset", false, "Clear signatures after each admission")
	cmd.Flags().StringVar(&opts.at, "at", "", "Pin the clock to this RFC 3339 time (default: now)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print a JSON report")
	cmd.Flags().IntVar(&opts.auditTail, "audit-tail", 0, "Include the last N audit events in the report")
	opts.parties.register(cmd)
	return cmd
}

func runAdmit(cmd *cobra.Command, g *globals, opts admitOptions) error {
	if opts.count < 0 {
		return fmt.Errorf("count cannot be negative")
	}
	if opts.auditTail < 0 {
		return fmt.Errorf("audit-tail cannot be negative")
	}
	_, p, err := g.loadPolicy()
	if err != nil {
		return err
	}

	now := time.Now()
	if opts.at != "" {
		if now, err = time.Parse(time.RFC3339, opts.at); err != nil {
			return fmt.Errorf("parse --at: %w", err)
		}
	}
	ctx := requestcontext.WithTime(cmd.Context(), now)

	reg := platformmetrics.NewRegistry()
	auditLog := auditmemory.NewInMemoryStore()
	pub := publisher.NewPublisher(auditLog, publisher.WithAsyncBuffer(1024), publisher.WithLogger(g.logger))
	defer pub.Close()
	svc, err := registry.New(repository.NewInMemory(),
		registry.WithPolicy(p),
		registry.WithLogger(g.logger),
		registry.WithAuditPublisher(pub),
		registry.WithMetrics(metrics.New(reg)),
	)
	if err != nil {
		return err
	}

	drafter, counterparty, err := opts.parties.build()
	if err != nil {
		return err
	}

	report := admitReport{}
	for i := 0; i < opts.count; i++ {
		doc := drafter.CreateDocument(ctx, counterparty)
		decision := svc.Evaluate(ctx, doc)
		signed := svc.Admit(ctx, doc)
		if opts.reset && svc.Contains(ctx, doc) {
			doc.ResetSigning()
		}
		result := admitResult{
			Document: doc.Snapshot(),
			Admitted: svc.Contains(ctx, doc),
			Signed:   signed,
		}
		if !decision.Allowed {
			result.Reason = decision.Reason.String()
		}
		report.Results = append(report.Results, result)
	}

	report.Stats = svc.Stats(ctx)
	if err := pub.Close(); err != nil {
		return err
	}
	report.Audit = auditLog.CountByAction(ctx)
	recent, err := auditLog.ListRecent(ctx, opts.auditTail)
	if err != nil {
		return err
	}
	for _, e := range recent {
		report.Recent = append(report.Recent, auditEntry{
			Action:   e.Action,
			Subject:  e.Subject,
			Party:    e.Party,
			Decision: e.Decision,
			Reason:   e.Reason,
		})
	}
	if report.Metrics, err = platformmetrics.Snapshot(reg, "docflow_"); err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printAdmitReport(cmd.OutOrStdout(), report)
	return nil
}

func printAdmitReport(w io.Writer, report admitReport) {
	for i, r := range report.Results {
		status := "rejected"
		if r.Admitted {
			status = "admitted"
		}
		line := fmt.Sprintf("%3d  %-40s %-9s %s", i+1, r.Document.Name, status, r.Document.State)
		if r.Reason != "" {
			line += "  (" + r.Reason + ")"
		}
		fmt.Fprintln(w, line)
	}
	for _, e := range report.Recent {
		fmt.Fprintf(w, "audit  %-28s %s %s\n", e.Action, e.Subject, e.Reason)
	}
	s := report.Stats
	fmt.Fprintf(w, "total=%d open=%d partially_signed=%d fully_signed=%d\n",
		s.Total, s.Open, s.PartiallySigned, s.FullySigned)
}
