// Package main 是 swiperec 命令行入口：导入商品目录、记录滑动交互、查看推荐与历史。
//
// memory 后端每次执行都是空库，只有 demo 命令有意义；使用 redis 后端时各命令共享数据。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rushteam/swiperec/core"
)

const usage = `usage: swiperec <command> [flags]

commands:
  seed        import a JSON product catalog
  user        create a user
  swipe       record (or recategorize) an interaction
  recommend   print recommendations for a user
  history     print a user's interaction history
  demo        seed, swipe and recommend against an in-process store
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "swiperec:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return flag.ErrHelp
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "seed":
		return runSeed(ctx, rest, out)
	case "user":
		return runUser(ctx, rest, out)
	case "swipe":
		return runSwipe(ctx, rest, out)
	case "recommend":
		return runRecommend(ctx, rest, out)
	case "history":
		return runHistory(ctx, rest, out)
	case "demo":
		return runDemo(ctx, rest, out)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// command 解析公共的 -config 参数并构建 app。
type command struct {
	fs         *flag.FlagSet
	configPath string
}

func newCommand(name string, out io.Writer) *command {
	c := &command{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	c.fs.SetOutput(out)
	c.fs.StringVar(&c.configPath, "config", "", "path to swiperec.yaml (defaults to in-memory store)")
	return c
}

func (c *command) open(ctx context.Context, args []string, out io.Writer) (*app, error) {
	if err := c.fs.Parse(args); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return nil, err
	}
	return newApp(ctx, cfg, out)
}

func runSeed(ctx context.Context, args []string, out io.Writer) error {
	c := newCommand("seed", out)
	catalog := c.fs.String("catalog", "configs/catalog.json", "product catalog JSON file")
	a, err := c.open(ctx, args, out)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.seedCatalog(ctx, *catalog)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "seeded %d products\n", n)
	return nil
}

func runUser(ctx context.Context, args []string, out io.Writer) error {
	c := newCommand("user", out)
	id := c.fs.String("id", "", "user id (generated when empty)")
	gender := c.fs.String("gender", "unisex", "male, female or unisex")
	a, err := c.open(ctx, args, out)
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.createUser(ctx, *id, *gender)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created user %s (%s)\n", u.ID, u.Gender)
	return nil
}

func runSwipe(ctx context.Context, args []string, out io.Writer) error {
	c := newCommand("swipe", out)
	userID := c.fs.String("user", "", "user id")
	productID := c.fs.String("product", "", "product id")
	kind := c.fs.String("type", "like", "favorite, like, dislike or neutral")
	recategorize := c.fs.Bool("recategorize", false, "change the type of an existing interaction")
	a, err := c.open(ctx, args, out)
	if err != nil {
		return err
	}
	defer a.Close()

	record := a.Interactions.RecordInteraction
	if *recategorize {
		record = a.Interactions.Recategorize
	}
	outcome, err := record(ctx, *userID, *productID, *kind)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s %s: %s\n", *userID, *kind, *productID, outcome)
	return nil
}

func runRecommend(ctx context.Context, args []string, out io.Writer) error {
	c := newCommand("recommend", out)
	userID := c.fs.String("user", "", "user id")
	category := c.fs.String("category", "clothing", "clothing, footwear or accessories")
	limit := c.fs.Int("limit", core.DefaultLimit, "number of products")
	a, err := c.open(ctx, args, out)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.printRecommendations(ctx, *userID, *category, *limit)
}

func runHistory(ctx context.Context, args []string, out io.Writer) error {
	c := newCommand("history", out)
	userID := c.fs.String("user", "", "user id")
	kind := c.fs.String("kind", "all", "favorites, liked, disliked, neutral or all")
	category := c.fs.String("category", "", "optional category filter")
	a, err := c.open(ctx, args, out)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.printHistory(ctx, *userID, *kind, *category)
}

// runDemo 在同一进程内完成导入、滑动与推荐。
func runDemo(ctx context.Context, args []string, out io.Writer) error {
	c := newCommand("demo", out)
	catalog := c.fs.String("catalog", "configs/catalog.json", "product catalog JSON file")
	gender := c.fs.String("gender", "female", "demo user gender")
	category := c.fs.String("category", "clothing", "category to swipe and recommend")
	swipes := c.fs.String("swipes", "like,like,dislike,favorite", "comma separated types applied to the first recommendations")
	stats := c.fs.Bool("stats", false, "print swiperec metrics at the end")
	a, err := c.open(ctx, args, out)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.seedCatalog(ctx, *catalog)
	if err != nil {
		return err
	}
	u, err := a.createUser(ctx, "demo", *gender)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "seeded %d products, user %s (%s)\n", n, u.ID, u.Gender)

	if err := a.printRecommendations(ctx, u.ID, *category, 5); err != nil {
		return err
	}

	kinds := strings.Split(*swipes, ",")
	recs, err := a.Recommender.Recommend(ctx, u.ID, *category, len(kinds))
	if err != nil {
		return err
	}
	for i, p := range recs {
		kind := strings.TrimSpace(kinds[i])
		outcome, err := a.Interactions.RecordInteraction(ctx, u.ID, p.ID, kind)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "swipe %-8s %-12s %s\n", kind, p.ID, outcome)
	}

	if err := a.printRecommendations(ctx, u.ID, *category, 5); err != nil {
		return err
	}
	if err := a.printHistory(ctx, u.ID, "all", ""); err != nil {
		return err
	}
	if *stats {
		return printStats(out)
	}
	return nil
}

// printStats 输出 swiperec_ 前缀的计数器。
func printStats(out io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	var lines []string
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "swiperec_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				lines = append(lines, fmt.Sprintf("%s{%s} count=%d", mf.GetName(), strings.Join(labels, ","), m.GetHistogram().GetSampleCount()))
			}
		}
	}
	sort.Strings(lines)
	fmt.Fprintln(out, "metrics:")
	for _, l := range lines {
		fmt.Fprintln(out, "  "+l)
	}
	return nil
}
