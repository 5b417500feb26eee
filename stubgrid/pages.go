package stubgrid

import "fmt"

// ListingURL is the front page of the built-in fixture site.
const ListingURL = "https://elpais.stub/opinion/"

type fixtureArticle struct {
	slug  string
	title string
	paras []string
	image string
}

var fixtureArticles = []fixtureArticle{
	{
		slug:  "gobierno-aprueba-ley",
		title: "El gobierno aprueba la ley",
		paras: []string{
			"El consejo de ministros dio luz verde al texto esta mañana.",
			"La oposición anunció que recurrirá la norma ante los tribunales.",
		},
		image: "https://elpais.stub/img/gobierno-aprueba-ley.jpg",
	},
	{
		slug:  "protestas-gobierno",
		title: "Protestas contra el gobierno",
		paras: []string{
			"Miles de personas se concentraron frente al congreso.",
			"Los sindicatos convocan nuevas movilizaciones para la próxima semana.",
		},
		image: "https://elpais.stub/img/protestas-gobierno.jpg",
	},
	{
		slug:  "futuro-gobierno",
		title: "El futuro del gobierno",
		paras: []string{
			"Los socios de coalición negocian los presupuestos del próximo año.",
			"Nadie se atreve a poner fecha a las elecciones.",
		},
		image: "https://elpais.stub/img/futuro-gobierno.jpg",
	},
	{
		slug:  "economia-crisis",
		title: "La economía y la crisis",
		paras: []string{
			"La inflación vuelve a marcar máximos en la zona euro.",
			"Los analistas descartan una recuperación rápida del consumo.",
		},
		image: "https://elpais.stub/img/economia-crisis.jpg",
	},
	{
		slug:  "crisis-sin-precedentes",
		title: "Una crisis sin precedentes",
		paras: []string{
			"Los historiadores buscan comparaciones y no las encuentran.",
			"El debate sobre las causas apenas ha comenzado.",
		},
		image: "https://elpais.stub/img/crisis-sin-precedentes.jpg",
	},
}

// DefaultTranslations maps the fixture titles to the English the
// translation stub should return for them.
func DefaultTranslations() map[string]string {
	return map[string]string{
		"El gobierno aprueba la ley":   "The government approves the law",
		"Protestas contra el gobierno": "Protests against the government",
		"El futuro del gobierno":       "The future of the government",
		"La economía y la crisis":      "The economy and the crisis",
		"Una crisis sin precedentes":   "An unprecedented crisis",
	}
}

// DefaultSite builds the fixture site: an opinion front page whose first
// five "h2 a" links lead to articles with an "h1" headline, body
// paragraphs and a figure image.
func DefaultSite() *Site {
	return buildSite(nil)
}

// BrokenSite is DefaultSite with the headline removed from one article,
// so extraction stalls waiting for an "h1" that never appears.
func BrokenSite(brokenSlug string) *Site {
	return buildSite(func(a fixtureArticle, selector string) bool {
		return a.slug == brokenSlug && selector == "h1"
	})
}

func buildSite(skip func(a fixtureArticle, selector string) bool) *Site {
	s := NewSite()
	s.AddPage(ListingURL)
	for _, a := range fixtureArticles {
		articleURL := fmt.Sprintf("https://elpais.stub/opinion/%s.html", a.slug)
		s.AddElement(ListingURL, "h2 a", a.title, map[string]string{"href": articleURL})

		add := func(selector, text string, attrs map[string]string) {
			if skip != nil && skip(a, selector) {
				return
			}
			s.AddElement(articleURL, selector, text, attrs)
		}
		add("h1", a.title, nil)
		for _, p := range a.paras {
			add("div.c-article-body p", p, nil)
		}
		add("figure img", "", map[string]string{"src": a.image})
	}
	return s
}
