package icons

// Glyphs used for entries that have no table match (Nerd Font code points).
const (
	DirectoryGlyph = ""
	FileGlyph      = ""
	SymlinkGlyph   = ""
)

var builtinIcons = []Icon{
	{Key: "c", Glyph: ""},
	{Key: "h", Glyph: ""},
	{Key: "cpp", Glyph: ""},
	{Key: "hpp", Glyph: "\U000f0c00"},
	{Key: "go", Glyph: ""},
	{Key: "mod", Glyph: ""},
	{Key: "sum", Glyph: ""},
	{Key: "rs", Glyph: ""},
	{Key: "py", Glyph: ""},
	{Key: "js", Glyph: ""},
	{Key: "ts", Glyph: ""},
	{Key: "java", Glyph: ""},
	{Key: "rb", Glyph: ""},
	{Key: "lua", Glyph: ""},
	{Key: "sh", Glyph: ""},
	{Key: "zsh", Glyph: ""},
	{Key: "fish", Glyph: ""},
	{Key: "vim", Glyph: ""},
	{Key: "md", Glyph: ""},
	{Key: "txt", Glyph: ""},
	{Key: "json", Glyph: ""},
	{Key: "yaml", Glyph: ""},
	{Key: "yml", Glyph: ""},
	{Key: "toml", Glyph: ""},
	{Key: "xml", Glyph: "\U000f05c0"},
	{Key: "html", Glyph: ""},
	{Key: "css", Glyph: ""},
	{Key: "png", Glyph: ""},
	{Key: "jpg", Glyph: ""},
	{Key: "jpeg", Glyph: ""},
	{Key: "gif", Glyph: ""},
	{Key: "svg", Glyph: "\U000f0721"},
	{Key: "pdf", Glyph: ""},
	{Key: "zip", Glyph: ""},
	{Key: "gz", Glyph: ""},
	{Key: "tar", Glyph: ""},
	{Key: "mp3", Glyph: ""},
	{Key: "mp4", Glyph: ""},
	{Key: "lock", Glyph: ""},
	{Key: "diff", Glyph: ""},
	{Key: "gitignore", Glyph: ""},
	{Key: "LICENSE", Glyph: ""},
	{Key: "Makefile", Glyph: ""},
	{Key: "Dockerfile", Glyph: ""},
}
