package main

import (
	"context"

	"github.com/spf13/afero"
	"github.com/tauraamui/signclips/pkg/configdef"
	"github.com/tauraamui/signclips/pkg/database/dbconn"
	"github.com/tauraamui/signclips/pkg/scraper"
)

func overloadFS(overload afero.Fs) func() {
	fsRef := fs
	fs = overload
	return func() { fs = fsRef }
}

func overloadConnectDB(overload func() (dbconn.GormWrapper, error)) func() {
	connectDBRef := connectDB
	connectDB = overload
	return func() { connectDB = connectDBRef }
}

func overloadNewBrowser(overload func(context.Context, configdef.Scraper) (scraper.Browser, error)) func() {
	newBrowserRef := newBrowser
	newBrowser = overload
	return func() { newBrowser = newBrowserRef }
}
