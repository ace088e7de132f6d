// Package document loads the style-build document: the content-scan globs, the sans
// font fallback chain, the enabled plugins and the component-library theme list that
// the Tailwind standalone binary is parameterized with.
//
// # Document Structure
//
//	{
//	  "content": ["./templates/*.html"],
//	  "theme": {
//	    "extend": {
//	      "fontFamily": {
//	        "sans": ["Inter var", "...fontFamily.sans"]
//	      }
//	    }
//	  },
//	  "plugins": ["daisyui"],
//	  "daisyui": {
//	    "themes": ["light", "dark", "business"]
//	  }
//	}
//
// The same shape is accepted as YAML or TOML. A "...fontFamily.sans" entry is replaced
// by [DefaultSans] in place.
//
// # Usage
//
//	doc, err := document.Load("tailwind.config.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(doc.Get(document.FieldThemes))
package document
