package daisyui

// Themes is the built-in theme catalogue, in the order daisyUI documents them.
var Themes = []string{
	"light",
	"dark",
	"cupcake",
	"bumblebee",
	"emerald",
	"corporate",
	"synthwave",
	"retro",
	"cyberpunk",
	"valentine",
	"halloween",
	"garden",
	"forest",
	"aqua",
	"lofi",
	"pastel",
	"fantasy",
	"wireframe",
	"black",
	"luxury",
	"dracula",
	"cmyk",
	"autumn",
	"business",
	"acid",
	"lemonade",
	"night",
	"coffee",
	"winter",
	"dim",
	"nord",
	"sunset",
	"caramellatte",
	"abyss",
	"silk",
}

var knownThemes = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Themes))
	for _, t := range Themes {
		m[t] = struct{}{}
	}
	return m
}()
