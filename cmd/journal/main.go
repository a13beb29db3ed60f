// Command journal is a terminal client for the journaling API. The access
// token and the derived content key live only for the lifetime of the
// process; nothing secret is written to disk.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"daily-journal-be/pkg/client"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err == nil {
		// optional .env for JOURNAL_SERVER_URL etc.
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	baseURL := os.Getenv("JOURNAL_SERVER_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	c := client.New(baseURL)
	ctx := context.Background()

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "register":
		err = runRegister(ctx, c, args)
	case "add":
		err = runAdd(ctx, c, args)
	case "list":
		err = runList(ctx, c, args)
	case "calendar":
		err = runCalendar(ctx, c, args)
	case "analyze":
		err = runAnalyze(ctx, c, args)
	case "enable-encryption":
		err = runSetEncryption(ctx, c, args, true)
	case "disable-encryption":
		err = runSetEncryption(ctx, c, args, false)
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: journal <command> [flags]

Commands:
  register            create an account
  add                 write an entry for a date
  list                list entries for a date or range
  calendar            show entry counts per day
  analyze             generate an AI summary for a period
  enable-encryption   turn on client-side encryption
  disable-encryption  turn off client-side encryption

Set JOURNAL_SERVER_URL to point at the API (default http://localhost:3000).
Commands that need login take -email and -password flags.`)
}

func login(ctx context.Context, c *client.Client, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("-email and -password are required")
	}
	return c.Login(ctx, email, password, false)
}

func runRegister(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if err := c.Register(ctx, *name, *email, *password); err != nil {
		return err
	}
	fmt.Println("Registered. Check your inbox for the verification code.")

	fmt.Print("Enter OTP: ")
	reader := bufio.NewReader(os.Stdin)
	otp, _ := reader.ReadString('\n')
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return nil
	}
	if err := c.VerifyEmail(ctx, *email, otp); err != nil {
		return err
	}
	fmt.Println("Email verified. You can log in now.")
	return nil
}

func runAdd(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	date := fs.String("date", time.Now().Format("2006-01-02"), "entry date (YYYY-MM-DD)")
	content := fs.String("content", "", "entry text; reads stdin when empty")
	fs.Parse(args)

	if err := login(ctx, c, *email, *password); err != nil {
		return err
	}
	defer c.Logout(ctx)

	text := *content
	if text == "" {
		fmt.Println("Write your entry, end with Ctrl-D:")
		raw, err := readAll(os.Stdin)
		if err != nil {
			return err
		}
		text = strings.TrimSpace(raw)
	}
	if text == "" {
		return fmt.Errorf("empty entry")
	}

	id, err := c.AddEntry(ctx, *date, text)
	if err != nil {
		return err
	}
	fmt.Printf("Saved entry %s for %s", id, *date)
	if c.EncryptionEnabled() {
		fmt.Print(" (encrypted)")
	}
	fmt.Println()
	return nil
}

func runList(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	date := fs.String("date", "", "single day (YYYY-MM-DD)")
	from := fs.String("from", "", "range start (YYYY-MM-DD)")
	to := fs.String("to", "", "range end (YYYY-MM-DD)")
	fs.Parse(args)

	if err := login(ctx, c, *email, *password); err != nil {
		return err
	}
	defer c.Logout(ctx)

	var entries []client.Entry
	var err error
	switch {
	case *date != "":
		entries, err = c.ListEntries(ctx, *date)
	case *from != "" && *to != "":
		entries, err = c.ListEntriesRange(ctx, *from, *to)
	default:
		entries, err = c.ListEntries(ctx, time.Now().Format("2006-01-02"))
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No entries.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("--- %s (%s)", e.EntryDate, e.Id)
		if e.Encrypted {
			fmt.Print(" [encrypted]")
		}
		fmt.Println()
		if e.DecryptErr != nil {
			fmt.Printf("  <unreadable: %v>\n", e.DecryptErr)
			continue
		}
		fmt.Println(indent(e.Content))
	}
	return nil
}

func runCalendar(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("calendar", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	from := fs.String("from", first.Format("2006-01-02"), "range start (YYYY-MM-DD)")
	to := fs.String("to", first.AddDate(0, 1, -1).Format("2006-01-02"), "range end (YYYY-MM-DD)")
	fs.Parse(args)

	if err := login(ctx, c, *email, *password); err != nil {
		return err
	}
	defer c.Logout(ctx)

	days, err := c.Calendar(ctx, *from, *to)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		fmt.Println("No entries in range.")
		return nil
	}
	for _, d := range days {
		fmt.Printf("%s  %d\n", d.Date, d.Count)
	}
	return nil
}

func runAnalyze(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	period := fs.String("period", "day", "day, week or month")
	start := fs.String("start", time.Now().Format("2006-01-02"), "period start (YYYY-MM-DD)")
	fs.Parse(args)

	if err := login(ctx, c, *email, *password); err != nil {
		return err
	}
	defer c.Logout(ctx)

	res, err := c.Analyze(ctx, *period, *start)
	if err != nil {
		return err
	}
	fmt.Printf("Analysis for %s starting %s (model %s):\n\n%s\n", res.Period, res.PeriodStart, res.Model, res.Content)
	return nil
}

func runSetEncryption(ctx context.Context, c *client.Client, args []string, enable bool) error {
	name := "disable-encryption"
	if enable {
		name = "enable-encryption"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if err := login(ctx, c, *email, *password); err != nil {
		return err
	}
	defer c.Logout(ctx)

	if enable {
		if err := c.EnableEncryption(ctx, *password); err != nil {
			return err
		}
		fmt.Println("Encryption enabled. New entries will be stored as envelopes.")
		fmt.Println("Existing entries stay plaintext until you rewrite them.")
		return nil
	}

	if err := c.DisableEncryption(ctx, *password); err != nil {
		return err
	}
	fmt.Println("Encryption disabled. Existing envelopes stay unreadable until re-enabled.")
	return nil
}

func readAll(f *os.File) (string, error) {
	var sb strings.Builder
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteString("\n")
	}
	return sb.String(), scanner.Err()
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
