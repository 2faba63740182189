// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package media stores uploaded poll and profile images.

	store, err := media.NewLocalStore(cfg.UploadDir, "/uploads")
	locator, err := store.Save(header.Filename, file)
	err = store.Remove(locator)

Save reads the first 512 bytes to sniff the content type and rejects
anything that is not image/* with ErrNotImage. Files get a UUID name plus
the lowercased original extension, so client file names never reach the
filesystem.

Locators are opaque to the rest of the system. Handlers remove saved files
again when a poll is rejected after upload.
*/
package media
