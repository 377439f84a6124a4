package main

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/webdevelop-pro/invest-common-sub001/internal/app/accreditation"
	"github.com/webdevelop-pro/invest-common-sub001/internal/app/investments"
	"github.com/webdevelop-pro/invest-common-sub001/internal/app/notifications"
	"github.com/webdevelop-pro/invest-common-sub001/internal/app/wallet"
	"github.com/webdevelop-pro/invest-common-sub001/internal/platform/config"
)

func newNotificationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "notifications", Short: "Read and acknowledge notifications"}

	var page, limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client(config.ServiceNotification)
			if err != nil {
				return err
			}
			s := notifications.NewStore(c, a.notifier)
			p, err := s.FetchList(cmd.Context(), page, limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			printf(tw, "ID\tSTATUS\tTYPE\tCREATED\tCONTENT\n")
			for _, n := range p.Items {
				printf(tw, "%s\t%s\t%s\t%s\t%s\n", n.ID, n.Status, n.Type, n.CreatedAt.Format(time.RFC3339), n.Content)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			pg := p.Pagination
			printf(a.stdout, "page %d/%d, %d total, %d unread on this page\n", pg.CurrentPage, pg.TotalPages, pg.TotalItems, s.UnreadCount())
			return nil
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&limit, "limit", 10, "items per page")

	read := &cobra.Command{
		Use:   "read <id>",
		Short: "Mark one notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(config.ServiceNotification)
			if err != nil {
				return err
			}
			n, err := notifications.NewStore(c, a.notifier).Read(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printf(a.stdout, "%s %s\n", n.ID, n.Status)
			return nil
		},
	}

	readAll := &cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification as read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client(config.ServiceNotification)
			if err != nil {
				return err
			}
			updated, err := notifications.NewStore(c, a.notifier).ReadAll(cmd.Context())
			if err != nil {
				return err
			}
			printf(a.stdout, "%d marked read\n", updated)
			return nil
		},
	}

	cmd.AddCommand(list, read, readAll)
	return cmd
}

func newWalletCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "wallet", Short: "Inspect and fund wallets"}

	show := &cobra.Command{
		Use:   "show <profile-id>",
		Short: "Show the wallet of a profile and its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(config.ServiceWallet)
			if err != nil {
				return err
			}
			s := wallet.NewStore(c, a.notifier)
			w, err := s.FetchWallet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			txs, err := s.FetchTransactions(cmd.Context(), w.ID)
			if err != nil {
				return err
			}
			printf(a.stdout, "wallet %s (%s) balance %.2f %s, pending in %.2f, pending out %.2f\n",
				w.ID, w.Status, w.CurrentBalance, w.Currency, w.PendingIncoming, w.PendingOutgoing)
			for _, tx := range txs {
				printf(a.stdout, "  %s %s %s %.2f\n", tx.CreatedAt.Format(time.RFC3339), tx.Type, tx.Status, tx.Amount)
			}
			return nil
		},
	}

	var key string
	fund := &cobra.Command{
		Use:   "fund <wallet-id> <amount>",
		Short: "Start a deposit into a wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("amount: %w", err)
			}
			c, err := a.client(config.ServiceWallet)
			if err != nil {
				return err
			}
			tx, err := wallet.NewStore(c, a.notifier).AddFunds(cmd.Context(), args[0], amount, key)
			if err != nil {
				return err
			}
			printf(a.stdout, "%s %s %.2f\n", tx.ID, tx.Status, tx.Amount)
			return nil
		},
	}
	fund.Flags().StringVar(&key, "idempotency-key", "", "reuse a key to retry a deposit safely")

	cmd.AddCommand(show, fund)
	return cmd
}

func newInvestmentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "investments", Short: "Browse investments and their documents"}

	var page, limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List investments, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client(config.ServiceInvestment)
			if err != nil {
				return err
			}
			p, err := investments.NewStore(c, a.notifier).FetchList(cmd.Context(), page, limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			printf(tw, "ID\tSTATUS\tAMOUNT\tOFFER\n")
			for _, inv := range p.Items {
				printf(tw, "%s\t%s\t%.2f\t%s\n", inv.ID, inv.Status, inv.Amount, inv.OfferName)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			printf(a.stdout, "page %d/%d, %d total\n", p.Pagination.CurrentPage, p.Pagination.TotalPages, p.Pagination.TotalItems)
			return nil
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&limit, "limit", 10, "items per page")

	var out string
	document := &cobra.Command{
		Use:   "document <investment-id> <document-id>",
		Short: "Download an investment document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(config.ServiceInvestment)
			if err != nil {
				return err
			}
			doc, err := investments.NewStore(c, a.notifier).DownloadDocument(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = filepath.Base(doc.Name)
			}
			if err := os.WriteFile(path, doc.Bytes, 0o644); err != nil {
				return err
			}
			printf(a.stdout, "wrote %s (%s, %d bytes)\n", path, doc.ContentType, len(doc.Bytes))
			return nil
		},
	}
	document.Flags().StringVarP(&out, "output", "o", "", "file to write (default: the document name)")

	cmd.AddCommand(list, document)
	return cmd
}

func newAccreditationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "accreditation", Short: "Check and submit accreditation documents"}

	status := &cobra.Command{
		Use:   "status <profile-id>",
		Short: "Show the accreditation review of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(config.ServiceAccreditation)
			if err != nil {
				return err
			}
			st, err := accreditation.NewStore(c, a.notifier).FetchStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printf(a.stdout, "profile %s: %s, %d file(s)\n", st.ProfileID, st.Status, len(st.Files))
			return nil
		},
	}

	var note string
	upload := &cobra.Command{
		Use:   "upload <profile-id> <file>...",
		Short: "Upload documents for review",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make([]accreditation.File, 0, len(args)-1)
			for _, path := range args[1:] {
				f, err := readUpload(path)
				if err != nil {
					return err
				}
				files = append(files, f)
			}
			c, err := a.client(config.ServiceAccreditation)
			if err != nil {
				return err
			}
			st, err := accreditation.NewStore(c, a.notifier).UploadDocuments(cmd.Context(), args[0], note, files)
			if err != nil {
				return err
			}
			printf(a.stdout, "profile %s: %s, %d file(s)\n", st.ProfileID, st.Status, len(st.Files))
			return nil
		},
	}
	upload.Flags().StringVar(&note, "note", "", "note for the reviewer")

	cmd.AddCommand(status, upload)
	return cmd
}

// readUpload loads path and guesses its content type from the extension,
// then from the content.
func readUpload(path string) (accreditation.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return accreditation.File{}, err
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return accreditation.File{Name: filepath.Base(path), ContentType: ct, Data: data}, nil
}
