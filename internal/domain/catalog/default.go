package catalog

// DefaultQuestions is the five-step tasting sequence.
func DefaultQuestions() []Question {
	return []Question{
		{
			ID:       "visual",
			Icon:     "👁️",
			Title:    "Aspect visuel",
			Subtitle: "Observez la couleur, la limpidité et l'intensité du vin",
			Type:     Rating,
			Weight:   4.0,
		},
		{
			ID:       "first-nose",
			Icon:     "👃",
			Title:    "Premier nez",
			Subtitle: "Sentez le vin sans l'agiter. Quelles sont vos premières impressions ?",
			Type:     Choice,
			Weight:   4.0,
			Options: []Option{
				{Title: "Fermé", Desc: "Peu d'arômes perceptibles", Value: 1},
				{Title: "Discret", Desc: "Arômes légers mais présents", Value: 2},
				{Title: "Ouvert", Desc: "Arômes bien présents et identifiables", Value: 3},
				{Title: "Expressif", Desc: "Arômes intenses et variés", Value: 4},
				{Title: "Puissant", Desc: "Arômes très intenses et complexes", Value: 5},
			},
		},
		{
			ID:       "second-nose",
			Icon:     "🌪️",
			Title:    "Deuxième nez",
			Subtitle: "Agitez délicatement le verre et sentez à nouveau",
			Type:     Choice,
			Weight:   4.0,
			Options: []Option{
				{Title: "Inchangé", Desc: "Aucune évolution notable", Value: 2},
				{Title: "Légèrement ouvert", Desc: "Quelques nouveaux arômes", Value: 3},
				{Title: "Bien ouvert", Desc: "Nette amélioration des arômes", Value: 4},
				{Title: "Très expressif", Desc: "Explosion d'arômes complexes", Value: 5},
			},
		},
		{
			ID:       "mouthfeel",
			Icon:     "👅",
			Title:    "Attaque en bouche",
			Subtitle: "Prenez une première gorgée. Comment le vin attaque-t-il vos papilles ?",
			Type:     Rating,
			Weight:   4.0,
		},
		{
			ID:       "finish",
			Icon:     "⏱️",
			Title:    "Finale",
			Subtitle: "Après avoir avalé, quelle est la persistance des arômes ?",
			Type:     Rating,
			Weight:   4.0,
		},
	}
}

// Default returns the catalog of DefaultQuestions.
func Default() *Catalog {
	c, err := New(DefaultQuestions())
	if err != nil {
		panic(err)
	}
	return c
}
