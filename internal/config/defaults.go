package config

import (
	"os"
	"path/filepath"
)

const (
	defaultConfigPath       = "~/.config/comicwebp/config.toml"
	defaultHistoryPath      = "~/.local/share/comicwebp/history.db"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultQuality          = 80
	defaultMimeProbe        = "file"
	defaultSevenZip         = "7z"
	defaultUnrar            = "unrar"
	defaultCwebp            = "cwebp"
	defaultGif2webp         = "gif2webp"
	workRootEnv             = "C2W_PATH"
	defaultWorkRootDirName  = "comicwebp"
	defaultHistoryEnabled   = true
	defaultStripApostrophes = true
)

// Default returns a Config populated with repository defaults. The workspace
// root is left empty so normalization can apply the C2W_PATH override.
func Default() Config {
	return Config{
		Paths: Paths{
			HistoryPath: defaultHistoryPath,
		},
		Tools: Tools{
			MimeProbe: defaultMimeProbe,
			SevenZip:  defaultSevenZip,
			Unrar:     defaultUnrar,
			Cwebp:     defaultCwebp,
			Gif2webp:  defaultGif2webp,
		},
		Conversion: Conversion{
			Quality:          defaultQuality,
			StripApostrophes: defaultStripApostrophes,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultWorkRoot() string {
	return filepath.Join(os.TempDir(), defaultWorkRootDirName)
}
