package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/inkfolio/internal/config"
	"github.com/inkfolio/internal/constants"
	"github.com/inkfolio/internal/i18n"
	"github.com/inkfolio/internal/logger"
	"github.com/inkfolio/internal/models"
	"github.com/inkfolio/internal/provider"
	"github.com/inkfolio/internal/service"

	"github.com/spf13/cobra"
)

var (
	container *provider.Container

	adminUsername string
	adminPassword string
	adminRole     string
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the blog database",
	Long: `Seed categories, tags, demo posts and admin accounts.

Running without a subcommand seeds taxonomy and demo posts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := seedTaxonomy(ctx); err != nil {
			return err
		}
		return seedPosts(ctx)
	},
}

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Seed default categories and tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		return seedTaxonomy(cmd.Context())
	},
}

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Seed demo posts (requires taxonomy)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return seedPosts(cmd.Context())
	},
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Create an admin account with a role",
	RunE: func(cmd *cobra.Command, args []string) error {
		return seedAdmin(adminUsername, adminPassword, adminRole)
	},
}

func init() {
	adminCmd.Flags().StringVar(&adminUsername, "username", "", "admin username")
	adminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
	adminCmd.Flags().StringVar(&adminRole, "role", constants.RoleEditor, "role name (editor, viewer or one created by role grant), super for a super admin")
	_ = adminCmd.MarkFlagRequired("username")
	_ = adminCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(taxonomyCmd, postsCmd, adminCmd, roleCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() error {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.ToPoolConfig(), cfg.Database.Verbose); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := models.AutoMigrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	container = provider.NewContainer(cfg)
	return nil
}

var defaultCategories = []service.TaxonomyInput{
	{Name: "Technology", Color: "#2563eb"},
	{Name: "Design", Color: "#db2777"},
	{Name: "Career", Color: "#16a34a"},
}

var defaultTags = []service.TaxonomyInput{
	{Name: "Go"},
	{Name: "React"},
	{Name: "UI/UX", Slug: "ui-ux"},
	{Name: "Backend"},
}

func seedTaxonomy(ctx context.Context) error {
	for _, input := range defaultCategories {
		category, err := container.TaxonomyService.CreateCategory(input)
		switch {
		case errors.Is(err, service.ErrCategorySlugExists):
			logger.Infow("seed_category_exists", "name", input.Name)
		case err != nil:
			return fmt.Errorf("seed category %s: %w", input.Name, err)
		default:
			logger.Infow("seed_category_created", "id", category.ID, "slug", category.Slug)
		}
	}
	for _, input := range defaultTags {
		tag, err := container.TaxonomyService.CreateTag(input)
		switch {
		case errors.Is(err, service.ErrTagSlugExists):
			logger.Infow("seed_tag_exists", "name", input.Name)
		case err != nil:
			return fmt.Errorf("seed tag %s: %w", input.Name, err)
		default:
			logger.Infow("seed_tag_created", "id", tag.ID, "slug", tag.Slug)
		}
	}
	return ctx.Err()
}

type demoPost struct {
	title     string
	excerpt   string
	category  string
	tags      []string
	featured  bool
	published bool
	daysAgo   int
}

var demoPosts = []demoPost{
	{
		title:     "Building a Blog Backend in Go",
		excerpt:   "Repositories, services and a thin HTTP layer.",
		category:  "technology",
		tags:      []string{"go", "backend"},
		featured:  true,
		published: true,
		daysAgo:   7,
	},
	{
		title:     "Designing Readable Article Layouts",
		excerpt:   "Typography and spacing notes for long-form posts.",
		category:  "design",
		tags:      []string{"ui-ux"},
		published: true,
		daysAgo:   3,
	},
	{
		title:    "Notes From My First Year as an Engineer",
		excerpt:  "A draft about habits that stuck.",
		category: "career",
		tags:     []string{"react"},
	},
}

func seedPosts(ctx context.Context) error {
	catalog, err := container.TaxonomyService.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	categoryIDs := make(map[string]uint, len(catalog.Categories))
	for _, category := range catalog.Categories {
		categoryIDs[category.Slug] = category.ID
	}
	tagIDs := make(map[string]uint, len(catalog.Tags))
	for _, tag := range catalog.Tags {
		tagIDs[tag.Slug] = tag.ID
	}

	now := time.Now()
	for _, demo := range demoPosts {
		categoryID, ok := categoryIDs[demo.category]
		if !ok {
			return fmt.Errorf("category %s missing, run `seed taxonomy` first", demo.category)
		}
		input := service.PostInput{
			Title:       demo.title,
			Excerpt:     demo.excerpt,
			Content:     demoContent(demo.title),
			Featured:    demo.featured,
			Published:   demo.published,
			CategoryIDs: []uint{categoryID},
		}
		if demo.daysAgo > 0 {
			at := now.AddDate(0, 0, -demo.daysAgo)
			input.PublishDate = &at
		}
		for _, slug := range demo.tags {
			if id, ok := tagIDs[slug]; ok {
				input.TagIDs = append(input.TagIDs, id)
			}
		}
		post, err := container.PostService.Create(ctx, input)
		switch {
		case errors.Is(err, service.ErrSlugExists):
			logger.Infow("seed_post_exists", "title", demo.title)
		case err != nil:
			return fmt.Errorf("seed post %q: %w", demo.title, err)
		default:
			logger.Infow("seed_post_created", "id", post.ID, "slug", post.Slug, "published", post.Published)
		}
	}
	return nil
}

func demoContent(title string) string {
	paragraph := "This is demo content for \"" + title + "\". Replace it from the admin editor once the blog is live. "
	return strings.TrimSpace(strings.Repeat(paragraph, 4))
}

func seedAdmin(username, password, role string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if role != "super" {
		exists, err := roleExists(container.AuthzService, role)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("unknown role %s, create it with `seed role grant` first", role)
		}
	}
	admin, err := container.AuthService.CreateAdmin(username, password, "", role == "super")
	if err != nil {
		var policyErr interface {
			Key() string
			Args() []interface{}
		}
		if errors.As(err, &policyErr) {
			return errors.New(i18n.Sprintf(constants.DefaultLocale, policyErr.Key(), policyErr.Args()...))
		}
		return fmt.Errorf("create admin: %w", err)
	}
	if !admin.IsSuper {
		if err := container.AuthzService.SetAdminRoles(admin.ID, []string{role}); err != nil {
			return fmt.Errorf("assign role: %w", err)
		}
	}
	logger.Infow("seed_admin_created", "id", admin.ID, "username", admin.Username, "role", role)
	return nil
}
