// Copyright (c) 2025-2026 Dummy Ops
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dummyops/bouquins/internal/auth"
	"github.com/dummyops/bouquins/internal/model"
)

type demoUser struct {
	username string
	email    string
	disabled bool
}

type demoBook struct {
	title    string
	summary  string
	content  string
	author   string
	category string
	year     int64
	picture  string
	owner    string
}

type demoComment struct {
	text   string
	author string
	book   string
}

var demoUsers = []demoUser{
	{username: "donald", email: "donald@localhost.fr"},
	{username: "daisy", email: "daisy@localhost.fr"},
	{username: "loulou", email: "loulou@localhost.fr"},
	{username: "louloute", email: "louloute@localhost.fr", disabled: true},
}

var demoBooks = []demoBook{
	{
		title: "L'origine des espèces",
		summary: "L'Origine des espèces (On the Origin of Species) est un ouvrage scientifique de Charles Darwin, " +
			"publié le 24 novembre 1859 pour sa première édition anglaise sous le titre L'origine des espèces " +
			"au moyen de la sélection naturelle ou la préservation des races favorisées dans la lutte pour la survie.",
		content: "Cet ouvrage est considéré comme le texte fondateur de la théorie de l'évolution. Dans ce livre, " +
			"Darwin présente la théorie scientifique de l'évolution des espèces vivantes à partir d'autres espèces " +
			"généralement éteintes, au moyen de la sélection naturelle. Darwin avance un ensemble de preuves montrant " +
			"que les espèces n'ont pas été créées indépendamment et ne sont pas immuables.",
		author:   "Charles Darwin",
		category: "histoire",
		year:     1859,
		picture:  "darwin_origine_des_especes.jpg",
		owner:    "donald",
	},
	{
		title:    "Guerre en Ukraine, choc géopolitique",
		summary:  "De brèves histoires autour de chocs géopolitiques",
		content:  "ras lectus nisi, aliquet vel nulla eget.",
		author:   "Pascal Boniface",
		category: "politique",
		year:     2022,
		picture:  "boniface_guerre_ukraine.jpg",
		owner:    "daisy",
	},
	{
		title:    "Les gratitudes",
		summary:  "Une brève histoire d'interactions entre humains au grand coeur",
		content:  "C bibendum pharetra purus.",
		author:   "Delphine de Vigan",
		category: "roman",
		year:     2019,
		picture:  "devighan_les_gratitudes.jpg",
		owner:    "loulou",
	},
	{
		title:    "Au commencement était la guerre",
		summary:  "De brèves histoires autour de l'histoire du monde, une guerre incessante",
		content:  "Donec vitae enim diam. Vivamus dignissim risus.",
		author:   "Alain Bauer",
		category: "histoire",
		year:     2021,
		picture:  "bauer_au-commencement_etait_la_guerre.jpg",
		owner:    "daisy",
	},
	{
		title:   "Les espionnes racontent",
		summary: "Anecdotes de rencontres",
		content: "Elles s'appellent Gabriele, Yola, Geneviève ou encore Ludmila. " +
			"Huit femmes de l'ombre dont l'Histoire n'a pas retenu le nom, " +
			"mais que Chloé Aeberhardt s'est employée à retrouver pendant cinq ans. " +
			"De Paris à Washington en passant par Moscou et Tel-Aviv, " +
			"cette enquête nous entraîne sur les pas des espionnes ayant oeuvré pour les principaux " +
			"services de renseignements durant la guerre froide.",
		author:   "Chloé Aeberhardt",
		category: "histoire",
		year:     2017,
		picture:  "chloe_aeberhardt_les_espionnes_racontent.jpg",
		owner:    "donald",
	},
	{
		title:   "Noa",
		summary: "Polar cyber",
		content: "9 hackers combattent un dictateur. Des vies sont en danger. " +
			"Une reporter d'investigation va s'infiltrer en terrain ennemi. Le temps est compté. " +
			"Le Groupe 9, plus uni que jamais, repart en mission. L'avenir de tout un peuple est en jeu. " +
			"De Londres à Kyïv, de Vilnius à Rome, un roman d'aventures et d'espionnage au suspense trépidant, " +
			"une histoire qui interpelle et invite à réfléchir sur le monde qui nous entoure.",
		author:   "Marc Levy",
		category: "polar",
		year:     2022,
		picture:  "noa-marc-levy.jpg",
		owner:    "daisy",
	},
	{
		title:   "Sur l'échiquier du grand jeu",
		summary: "Essai d'histoire autour du Grand Jeu",
		content: "Dès le XIXe siècle, l'Empire britannique et l'Empire russe s'affrontent pour établir leur zone " +
			"d'influence respective en Perse, en Afghanistan et en Asie centrale. Pendant plus de deux siècles, " +
			"ce Grand Jeu connaît de multiples reconfigurations impliquant de nombreux acteurs, " +
			"grandes puissances comme agents secrets ou aventuriers.",
		author:   "Taline Ter Minassian",
		category: "strategie",
		year:     2021,
		picture:  "Sur-l-echiquier-du-Grand-Jeu.jpg",
		owner:    "loulou",
	},
	{
		title:   "Prophète dans son pays",
		summary: "L'ouvrage récapitulatif de l'oeuvre d'une vie",
		content: "Prophète en son pays est un récit de formation qui couvre les quatre décennies pendant lesquelles " +
			"Gilles Kepel a parcouru le monde arabe et musulman, de l'Égypte au Maghreb en passant par le Levant " +
			"et le Golfe, ainsi que les banlieues de l'islam de l'Hexagone et de l'Europe. Kepel fut en effet " +
			"le premier à identifier et à étudier les mouvements islamistes, lors de l'assassinat de Sadate, " +
			"en 1981, et à observer la naissance de l'islam en France dans ses significations multiformes.",
		author:   "Gilles Kepel",
		category: "politique",
		year:     2023,
		picture:  "gilles_kepel_prophete_en_son_pays.jpg",
		owner:    "donald",
	},
}

var demoComments = []demoComment{
	{text: "Observations incroyables pour ce XIXème siècle", author: "daisy", book: "L'origine des espèces"},
	{text: "Différents rappels sur les rapports de pouvoirs, les réactions ambivalentes non concertées.", author: "donald", book: "Guerre en Ukraine, choc géopolitique"},
	{text: "Un peu étrange comme lecture", author: "loulou", book: "Les gratitudes"},
	{text: "Plutôt inhabituel.", author: "donald", book: "Les gratitudes"},
	{text: "Plutôt sympathique.", author: "donald", book: "Les espionnes racontent"},
	{text: "Plutôt indiscret.", author: "louloute", book: "Noa"},
	{text: "Plutôt pas mal.", author: "donald", book: "Noa"},
}

// SeedDemo loads the demo users, books and comments used in development and
// test environments. All demo users share the given password. Existing rows
// are left untouched so the loader can run at every startup.
func SeedDemo(ctx context.Context, db *sql.DB, password string) error {
	queries := New(db)

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}

	userIDs := make(map[string]int64, len(demoUsers))
	for _, du := range demoUsers {
		user, err := queries.GetUserByUsername(ctx, du.username)
		if errors.Is(err, sql.ErrNoRows) {
			user, err = queries.CreateUser(ctx, CreateUserParams{
				Username:       du.username,
				Email:          du.email,
				HashedPassword: passwordHash,
				Role:           model.RoleUser,
				Disabled:       du.disabled,
				CreatedAt:      time.Now(),
			})
		}
		if err != nil {
			return fmt.Errorf("seeding user %q: %w", du.username, err)
		}
		userIDs[du.username] = user.ID
	}

	bookIDs := make(map[string]int64, len(demoBooks))
	for _, bk := range demoBooks {
		category, err := queries.GetCategoryByTitle(ctx, bk.category)
		if err != nil {
			return fmt.Errorf("resolving category %q: %w", bk.category, err)
		}

		book, err := queries.GetBookByTitle(ctx, bk.title)
		if errors.Is(err, sql.ErrNoRows) {
			book, err = queries.CreateBook(ctx, CreateBookParams{
				Title:             bk.title,
				Summary:           bk.summary,
				Content:           bk.content,
				Author:            bk.author,
				CategoryID:        category.ID,
				YearOfPublication: bk.year,
				BookPictureName:   bk.picture,
				PublicationDate:   time.Now(),
				UserID:            userIDs[bk.owner],
			})
		}
		if err != nil {
			return fmt.Errorf("seeding book %q: %w", bk.title, err)
		}
		bookIDs[bk.title] = book.ID
	}

	count, err := queries.countComments(ctx)
	if err != nil {
		return fmt.Errorf("counting comments: %w", err)
	}
	if count == 0 {
		for _, dc := range demoComments {
			_, err := queries.CreateComment(ctx, CreateCommentParams{
				Text:            dc.text,
				PublicationDate: time.Now(),
				AuthorID:        userIDs[dc.author],
				BookID:          bookIDs[dc.book],
			})
			if err != nil {
				return fmt.Errorf("seeding comment on %q: %w", dc.book, err)
			}
		}
	}

	slog.Info("demo data loaded", "users", len(demoUsers), "books", len(demoBooks))
	return nil
}
