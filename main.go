package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vicentereig/line-cli/internal/biz"
	"github.com/vicentereig/line-cli/internal/commands"
	"github.com/vicentereig/line-cli/internal/output"
	"github.com/vicentereig/line-cli/internal/session"
	"github.com/vicentereig/line-cli/internal/types"
)

var (
	// version is overridden at build time via -ldflags "-X main.version=X.Y.Z"
	version = "dev"
)

const requestTimeout = 5 * time.Minute

type globalFlags struct {
	storeDir string
	config   string
	profile  string
	verbose  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stdout, output.Error(err))
		os.Exit(1)
	}
}

func newRootCmd(out, logOut io.Writer) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "line-cli",
		Short:         "Command line interface for LINE albums",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&g.storeDir, "store", "./store", "storage directory")
	root.PersistentFlags().StringVar(&g.config, "config", "", "config file (default <store>/config.yaml)")
	root.PersistentFlags().StringVar(&g.profile, "profile", "default", "session profile")
	root.PersistentFlags().BoolVar(&g.verbose, "verbose", false, "debug logging")

	// run opens the app for one command and prints its envelope.
	run := func(cmd *cobra.Command, fn func(ctx context.Context, app *commands.App) string) error {
		storeDir, err := filepath.Abs(g.storeDir)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(storeDir, 0700); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
		app, err := commands.NewApp(commands.Options{
			StoreDir:   storeDir,
			ConfigPath: g.config,
			Profile:    g.profile,
			Version:    version,
			Verbose:    g.verbose,
			LogOutput:  logOut,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		defer app.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()
		fmt.Fprintln(cmd.OutOrStdout(), fn(ctx, app))
		return nil
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print CLI version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := commands.NewAppWithDeps(nil, nil, nil, g.profile, version)
			fmt.Fprintln(cmd.OutOrStdout(), app.Version())
			return nil
		},
	})
	root.AddCommand(newAlbumCmd(run), newShopCmd(run), newSessionCmd(run))
	return root
}

type runFunc func(cmd *cobra.Command, fn func(ctx context.Context, app *commands.App) string) error

func newAlbumCmd(run runFunc) *cobra.Command {
	albumCmd := &cobra.Command{Use: "album", Short: "Album operations"}

	var (
		chatID, cursor, include, order, filter, targetUser, referrer string
		viewType, likeType, title, photosFile, osName, country       string
		syncRevisionStr                                              string
		albumID, legacyID, photoID, syncRevision                     int64
		pageSize, thumbnails, termsVersion, language                 int
		markReading, premium, modifyDuplicate, preview               bool
		photoIDs                                                     []int64
	)

	chatFlag := func(c *cobra.Command) {
		c.Flags().StringVar(&chatID, "chat", "", "chat id")
		c.MarkFlagRequired("chat")
	}
	albumFlag := func(c *cobra.Command) {
		c.Flags().Int64Var(&albumID, "album", 0, "album id")
		c.MarkFlagRequired("album")
	}
	pagingFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&cursor, "cursor", "", "page cursor")
		c.Flags().IntVar(&pageSize, "page-size", 0, "page size")
	}
	targetUserPtr := func(c *cobra.Command) *string {
		if !c.Flags().Changed("target-user") {
			return nil
		}
		return &targetUser
	}

	cmd := func(use, short string, flags func(*cobra.Command), runE func(cmd *cobra.Command) error) *cobra.Command {
		c := &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return runE(cmd) },
		}
		if flags != nil {
			flags(c)
		}
		return c
	}

	albumCmd.AddCommand(
		cmd("hidden-chats", "List chats hidden from the album list", nil, func(c *cobra.Command) error {
			return run(c, func(ctx context.Context, app *commands.App) string { return app.HiddenChats(ctx) })
		}),
		cmd("hide-chat", "Hide a chat from the album list", chatFlag, func(c *cobra.Command) error {
			return run(c, func(ctx context.Context, app *commands.App) string { return app.HideChat(ctx, chatID) })
		}),
		cmd("unhide-chat", "Show a hidden chat in the album list again", chatFlag, func(c *cobra.Command) error {
			return run(c, func(ctx context.Context, app *commands.App) string { return app.UnhideChat(ctx, chatID) })
		}),
		cmd("moa-albums", "List albums across all chats", func(c *cobra.Command) {
			c.Flags().StringVar(&cursor, "cursor", "", "page cursor")
			c.Flags().StringVar(&order, "order", string(types.OrderByCreateTimeDesc), "createTimeDesc or updateTimeDesc")
			c.Flags().StringVar(&include, "include", "", "extra fields to include")
		}, func(c *cobra.Command) error {
			orderBy, err := types.ParseOrderBy(order)
			if err != nil {
				return err
			}
			p := biz.MoaAlbumsParams{Cursor: cursor, OrderBy: orderBy, Include: include}
			return run(c, func(ctx context.Context, app *commands.App) string { return app.MoaAlbums(ctx, p) })
		}),
		cmd("moa-photos", "List photos across all chats", func(c *cobra.Command) {
			c.Flags().StringVar(&cursor, "cursor", "", "page cursor")
			c.Flags().StringVar(&include, "include", "", "extra fields to include")
		}, func(c *cobra.Command) error {
			p := biz.MoaPhotosParams{Cursor: cursor, Include: include}
			return run(c, func(ctx context.Context, app *commands.App) string { return app.MoaPhotos(ctx, p) })
		}),
		cmd("get", "Get one album", func(c *cobra.Command) {
			chatFlag(c)
			albumFlag(c)
			c.Flags().Int64Var(&syncRevision, "sync-revision", 0, "sync revision")
			c.Flags().StringVar(&referrer, "referrer", "", "MOA, NOTI_LIKE or NONE")
		}, func(c *cobra.Command) error {
			ref, err := types.ParseReferrerType(referrer)
			if err != nil {
				return err
			}
			p := biz.GetAlbumParams{ChatID: chatID, AlbumID: albumID, SyncRevision: syncRevision, Referrer: ref}
			return run(c, func(ctx context.Context, app *commands.App) string { return app.GetAlbum(ctx, p) })
		}),
		cmd("share", "Share an album into its chat", func(c *cobra.Command) {
			chatFlag(c)
			albumFlag(c)
		}, func(c *cobra.Command) error {
			return run(c, func(ctx context.Context, app *commands.App) string { return app.ShareAlbum(ctx, chatID, albumID) })
		}),
		cmd("photos", "List the photos of an album", func(c *cobra.Command) {
			chatFlag(c)
			albumFlag(c)
			pagingFlags(c)
			c.Flags().StringVar(&order, "order", string(types.OrderByCreateTimeDesc), "createTimeDesc or updateTimeDesc")
			c.Flags().StringVar(&include, "include", "", "extra fields to include")
			c.Flags().StringVar(&filter, "filter", "", "photo filter")
			c.Flags().StringVar(&targetUser, "target-user", "", "only photos uploaded by this mid")
			c.Flags().StringVar(&referrer, "referrer", "", "MOA, NOTI_LIKE or NONE")
		}, func(c *cobra.Command) error {
			orderBy, err := types.ParseOrderBy(order)
			if err != nil {
				return err
			}
			ref, err := types.ParseReferrerType(referrer)
			if err != nil {
				return err
			}
			p := biz.AlbumPhotosParams{
				ChatID:        chatID,
				AlbumID:       albumID,
				Cursor:        cursor,
				PageSize:      pageSize,
				OrderBy:       orderBy,
				Include:       include,
				FilterType:    filter,
				TargetUserMid: targetUserPtr(c),
				Referrer:      ref,
			}
			return run(c, func(ctx context.Context, app *commands.App) string { return app.AlbumPhotos(ctx, p) })
		}),
		cmd("list", "List the albums of a chat", func(c *cobra.Command) {
			chatFlag(c)
			c.Flags().StringVar(&syncRevisionStr, "sync-revision", "", "sync revision")
			c.Flags().BoolVar(&markReading, "mark-reading", false, "mark albums as read")
		}, func(c *cobra.Command) error {
			p := biz.FetchAlbumsParams{ChatID: chatID, SyncRevision: syncRevisionStr, MarkReading: markReading}
			return run(c, func(ctx context.Context, app *commands.App) string { return app.ListAlbums(ctx, p) })
		}),
		cmd("list-v6", "List the albums of a chat with paging", func(c *cobra.Command) {
			chatFlag(c)
			pagingFlags(c)
		}, func(c *cobra.Command) error {
			p := biz.FetchAlbumsV6Params{ChatID: chatID, Cursor: cursor, PageSize: pageSize}
			return run(c, func(ctx context.Context, app *commands.App) string { return app.ListAlbumsV6(ctx, p) })
		}),
		cmd("preview", "Preview the albums of a chat", func(c *cobra.Command) {
			chatFlag(c)
			pagingFlags(c)
			c.Flags().StringVar(&viewType, "view", string(types.ViewTypeChatMenu), "chatMenu or selectAlbum")
			c.Flags().IntVar(&thumbnails, "thumbnails", 1, "thumbnails per album")
		}, func(c *cobra.Command) error {
			view, err := types.ParseViewType(viewType)
			if err != nil {
				return err
			}
			p := biz.PreviewAlbumsParams{ChatID: chatID, Cursor: cursor, PageSize: pageSize, ViewType: view, ThumbnailCount: thumbnails}
			return run(c, func(ctx context.Context, app *commands.App) string { return app.PreviewAlbums(ctx, p) })
		}),
		cmd("promotion", "Get the album promotion item", func(c *cobra.Command) {
			c.Flags().StringVar(&country, "country", "", "country code")
			c.Flags().IntVar(&language, "language", 0, "language code")
			c.Flags().BoolVar(&premium, "premium", false, "premium user")
			c.Flags().StringVar(&osName, "os", "Android", "client os")
		}, func(c *cobra.Command) error {
			p := biz.PromotionItemParams{Country: country, Language: language, IsPremium: premium, OS: osName}
			return run(c, func(ctx context.Context, app *commands.App) string { return app.Promotion(ctx, p) })
		}),
		cmd("terms-agree", "Agree to the premium album terms", func(c *cobra.Command) {
			c.Flags().IntVar(&termsVersion, "terms-version", 0, "terms version")
			c.MarkFlagRequired("terms-version")
		}, func(c *cobra.Command) error {
			return run(c, func(ctx context.Context, app *commands.App) string { return app.AgreeTerms(ctx, termsVersion) })
		}),
		cmd("terms-status", "Show the premium album terms status", nil, func(c *cobra.Command) error {
			return run(c, func(ctx context.Context, app *commands.App) string { return app.TermsStatus(ctx) })
		}),
		cmd("resolve-id", "Resolve a legacy album id", func(c *cobra.Command) {
			chatFlag(c)
			c.Flags().Int64Var(&legacyID, "legacy-id", 0, "legacy album id")
			c.MarkFlagRequired("legacy-id")
		}, func(c *cobra.Command) error {
			return run(c, func(ctx context.Context, app *commands.App) string { return app.ResolveAlbumID(ctx, chatID, legacyID) })
		}),
		cmd("add-photos", "Add uploaded photos to an album", func(c *cobra.Command) {
			chatFlag(c)
			albumFlag(c)
			c.Flags().StringVar(&photosFile, "photos", "", "JSON file with an array of photo objects")
			c.MarkFlagRequired("photos")
		}, func(c *cobra.Command) error {
			photos, err := readPhotos(photosFile)
			if err != nil {
				return err
			}
			return run(c, func(ctx context.Context, app *commands.App) string { return app.AddPhotos(ctx, chatID, albumID, photos) })
		}),
		cmd("create", "Create an album", func(c *cobra.Command) {
			chatFlag(c)
			c.Flags().StringVar(&title, "title", "", "album title")
			c.Flags().BoolVar(&modifyDuplicate, "modify-duplicate-title", false, "let the server rename duplicate titles")
			c.MarkFlagRequired("title")
		}, func(c *cobra.Command) error {
			p := biz.CreateAlbumParams{ChatID: chatID, Title: title, ModifyDuplicateTitle: modifyDuplicate}
			return run(c, func(ctx context.Context, app *commands.App) string { return app.CreateAlbum(ctx, p) })
		}),
		cmd("delete", "Delete an album", func(c *cobra.Command) {
			chatFlag(c)
			albumFlag(c)
		}, func(c *cobra.Command) error {
			return run(c, func(ctx context.Context, app *commands.App) string { return app.DeleteAlbum(ctx, chatID, albumID) })
		}),
		cmd("delete-photos", "Delete photos from an album", func(c *cobra.Command) {
			chatFlag(c)
			albumFlag(c)
			c.Flags().Int64SliceVar(&photoIDs, "photo", nil, "photo id (repeatable)")
		}, func(c *cobra.Command) error {
			return run(c, func(ctx context.Context, app *commands.App) string { return app.DeletePhotos(ctx, chatID, albumID, photoIDs) })
		}),
		cmd("rename", "Rename an album", func(c *cobra.Command) {
			chatFlag(c)
			albumFlag(c)
			c.Flags().StringVar(&title, "title", "", "new title")
			c.MarkFlagRequired("title")
		}, func(c *cobra.Command) error {
			return run(c, func(ctx context.Context, app *commands.App) string { return app.RenameAlbum(ctx, chatID, albumID, title) })
		}),
		cmd("download-info", "Get download info for the photos of an album", func(c *cobra.Command) {
			chatFlag(c)
			albumFlag(c)
			c.Flags().StringVar(&order, "order", string(types.OrderByCreateTimeDesc), "createTimeDesc or updateTimeDesc")
			c.Flags().StringVar(&filter, "filter", "", "specificUser")
			c.Flags().StringVar(&targetUser, "target-user", "", "only photos uploaded by this mid")
		}, func(c *cobra.Command) error {
			orderBy, err := types.ParseOrderBy(order)
			if err != nil {
				return err
			}
			var filterType types.FilterType
			if filter != "" {
				if filterType, err = types.ParseFilterType(filter); err != nil {
					return err
				}
			}
			p := biz.PhotoDownloadInfoParams{ChatID: chatID, AlbumID: albumID, OrderBy: orderBy, FilterType: filterType, TargetUserMid: targetUserPtr(c)}
			return run(c, func(ctx context.Context, app *commands.App) string { return app.DownloadInfo(ctx, p) })
		}),
		cmd("likes", "List the likes of a photo", func(c *cobra.Command) {
			chatFlag(c)
			albumFlag(c)
			pagingFlags(c)
			c.Flags().Int64Var(&photoID, "photo", 0, "photo id")
			c.Flags().BoolVar(&preview, "preview", false, "only the preview")
			c.MarkFlagRequired("photo")
		}, func(c *cobra.Command) error {
			p := biz.PhotoLikesParams{ChatID: chatID, AlbumID: albumID, PhotoID: photoID, Cursor: cursor, PageSize: pageSize}
			return run(c, func(ctx context.Context, app *commands.App) string { return app.PhotoLikes(ctx, p, preview) })
		}),
		cmd("like", "Like a photo", func(c *cobra.Command) {
			chatFlag(c)
			albumFlag(c)
			c.Flags().Int64Var(&photoID, "photo", 0, "photo id")
			c.Flags().StringVar(&likeType, "type", string(types.LikeType1001), "like type 1001-1006")
			c.MarkFlagRequired("photo")
		}, func(c *cobra.Command) error {
			lt, err := types.ParseLikeType(likeType)
			if err != nil {
				return err
			}
			return run(c, func(ctx context.Context, app *commands.App) string {
				return app.LikePhoto(ctx, chatID, albumID, photoID, lt)
			})
		}),
		cmd("unlike", "Remove your like from a photo", func(c *cobra.Command) {
			chatFlag(c)
			albumFlag(c)
			c.Flags().Int64Var(&photoID, "photo", 0, "photo id")
			c.MarkFlagRequired("photo")
		}, func(c *cobra.Command) error {
			return run(c, func(ctx context.Context, app *commands.App) string { return app.UnlikePhoto(ctx, chatID, albumID, photoID) })
		}),
	)
	return albumCmd
}

func newShopCmd(run runFunc) *cobra.Command {
	shopCmd := &cobra.Command{Use: "shop", Short: "Shop service calls"}

	var publicKey string
	establish := &cobra.Command{
		Use:   "establish-e2ee",
		Short: "Establish an end-to-end encrypted shop session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, app *commands.App) string {
				return app.EstablishE2EESession(ctx, publicKey)
			})
		},
	}
	establish.Flags().StringVar(&publicKey, "public-key", "", "client public key")
	establish.MarkFlagRequired("public-key")

	shopCmd.AddCommand(establish)
	return shopCmd
}

func newSessionCmd(run runFunc) *cobra.Command {
	sessionCmd := &cobra.Command{Use: "session", Short: "Manage stored sessions"}

	var sess session.Session
	set := &cobra.Command{
		Use:   "set",
		Short: "Save credentials for the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sess.AccessToken == "" && term.IsTerminal(int(os.Stdin.Fd())) {
				token, err := promptSecret(cmd.ErrOrStderr(), "Access token: ")
				if err != nil {
					return err
				}
				sess.AccessToken = token
			}
			return run(cmd, func(ctx context.Context, app *commands.App) string { return app.SetSession(sess) })
		},
	}
	set.Flags().StringVar(&sess.AccessToken, "access-token", "", "x-line-access token (prompted when omitted)")
	set.Flags().StringVar(&sess.Mid, "mid", "", "user mid")
	set.Flags().StringVar(&sess.TimelineToken, "timeline-token", "", "timeline channel token")
	set.Flags().StringVar(&sess.AlbumToken, "album-token", "", "album channel token")
	set.Flags().StringVar(&sess.Application, "application", "", "x-line-application override")
	set.Flags().StringVar(&sess.UserAgent, "user-agent", "", "User-Agent override")
	set.Flags().StringVar(&sess.Language, "language", "", "x-lal override")

	sessionCmd.AddCommand(
		set,
		&cobra.Command{
			Use:   "show",
			Short: "Show the profile's session with tokens masked",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(ctx context.Context, app *commands.App) string { return app.ShowSession() })
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Delete the profile's session",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(ctx context.Context, app *commands.App) string { return app.DeleteSession() })
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List stored profiles",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(ctx context.Context, app *commands.App) string { return app.ListSessions() })
			},
		},
	)
	return sessionCmd
}

func promptSecret(w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}

func readPhotos(path string) ([]types.AlbumPhoto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read photos: %w", err)
	}
	var photos []types.AlbumPhoto
	if err := json.Unmarshal(data, &photos); err != nil {
		return nil, fmt.Errorf("parse photos %s: %w", path, err)
	}
	if len(photos) == 0 {
		return nil, errors.New("photos file contains no photos")
	}
	return photos, nil
}
