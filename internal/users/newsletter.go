package users

import (
	"context"
	"log"
	"time"

	"blog-platform/internal/repository"
	"blog-platform/pkg/mailer"
)

// Newsletter periodically emails every subscribed account. Recipients go on
// BCC so subscribers never see each other's addresses.
type Newsletter struct {
	users    repository.UserRepository
	articles repository.ArticleRepository
	mail     *mailer.Service
	appName  string
	interval time.Duration
}

func NewNewsletter(users repository.UserRepository, articles repository.ArticleRepository, mail *mailer.Service, appName string, interval time.Duration) *Newsletter {
	return &Newsletter{
		users:    users,
		articles: articles,
		mail:     mail,
		appName:  appName,
		interval: interval,
	}
}

// Run blocks until the context is cancelled, sending one issue per interval.
func (n *Newsletter) Run(ctx context.Context) {
	if n.mail == nil {
		log.Println("newsletter: no mail service configured, scheduler disabled")
		return
	}

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := n.SendIssue(ctx); err != nil {
				log.Printf("newsletter: failed to send issue: %v", err)
			}
		}
	}
}

// SendIssue assembles and sends a single newsletter issue.
func (n *Newsletter) SendIssue(ctx context.Context) error {
	recipients, err := n.users.NewsletterRecipients(ctx)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	var items []mailer.NewsletterArticle
	if n.articles != nil {
		latest, err := n.articles.List(ctx)
		if err != nil {
			log.Printf("newsletter: failed to load articles, sending without highlights: %v", err)
		} else {
			for i, a := range latest {
				if i == 5 {
					break
				}
				items = append(items, mailer.NewsletterArticle{Title: a.Title, Intro: a.Intro})
			}
		}
	}

	tmpl, err := mailer.NewsletterTemplate()
	if err != nil {
		return err
	}

	_, err = n.mail.SendTemplate(tmpl, mailer.NewsletterContext{
		AppName:  n.appName,
		Headline: "What you missed on " + n.appName,
		Articles: items,
	}, &mailer.EmailData{
		To:  recipients[:1],
		BCC: recipients[1:],
	})
	return err
}
