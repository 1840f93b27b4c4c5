package mailing

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/rs/zerolog/log"
)

const layout = `<div style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px; line-height: 1.6;">
  <div style="max-width: 600px; background-color: #fff; margin: 20px auto; padding: 30px; border-radius: 10px;">
    <h2 style="color: #42ba96; text-align: center;">{{.Title}}</h2>
    {{range .Lines}}<p style="font-size: 16px; color: #333;">{{.}}</p>
    {{end}}{{if .Highlight}}<div style="text-align: center; background-color: #f1f1f1; padding: 15px; border-radius: 8px; margin: 20px 0;">
      <p style="font-size: 22px; font-weight: bold; color: #333;">{{.Highlight}}</p>
    </div>{{end}}
    {{range .After}}<p style="font-size: 16px; color: #333;">{{.}}</p>
    {{end}}
    <hr style="border: 0; border-top: 1px solid #ccc; margin-top: 20px;">
    <p style="font-size: 12px; text-align: center; color: #999;">&copy; {{.Year}} Save Byte | All rights reserved.</p>
  </div>
</div>`

var layoutTmpl = template.Must(template.New("mail").Parse(layout))

type page struct {
	Title     string
	Lines     []string
	Highlight string
	After     []string
	Year      int
}

func render(to, subject string, p page) Mail {
	return renderWith(layoutTmpl, to, subject, p)
}

// renderWith falls back to a plain-text only mail when the HTML layout
// cannot be executed.
func renderWith(tmpl *template.Template, to, subject string, p page) Mail {
	p.Year = time.Now().Year()

	text := p.Title + "\n\n"
	for _, line := range p.Lines {
		text += line + "\n"
	}
	if p.Highlight != "" {
		text += "\n" + p.Highlight + "\n\n"
	}
	for _, line := range p.After {
		text += line + "\n"
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("mail template failed, sending text only")
		return Mail{To: to, Subject: subject, Text: text}
	}
	return Mail{To: to, Subject: subject, HTML: buf.String(), Text: text}
}

func OTPMail(to, otp string) Mail {
	return render(to, "Food Pickup Verification OTP", page{
		Title:     "Food Pickup OTP Verification",
		Lines:     []string{"Hello, your OTP for food pickup verification is:"},
		Highlight: otp,
		After:     []string{"This OTP is valid for 1 day. Please provide this OTP to complete the food pickup process."},
	})
}

func DonorHandoffMail(to, transactionID string) Mail {
	return render(to, "Food Donation Completed", page{
		Title: "Donation Completed",
		Lines: []string{
			"The OTP was verified and your food has been handed over successfully.",
			fmt.Sprintf("Transaction Id: %s", transactionID),
			"Thank you for helping reduce food waste!",
		},
	})
}

func ReceiverHandoffMail(to, transactionID string) Mail {
	return render(to, "Food Pickup Completed", page{
		Title: "Pickup Completed",
		Lines: []string{
			"Your food pickup has been verified successfully.",
			fmt.Sprintf("Transaction Id: %s", transactionID),
		},
	})
}

func FoodAvailableMail(to, message string, expiry time.Time) Mail {
	return render(to, "New Food Available", page{
		Title: "New Food Available",
		Lines: []string{
			message,
			fmt.Sprintf("Best before: %s", expiry.Format("02 Jan 2006 15:04 MST")),
			"Log in to Save Byte to accept it before someone else does.",
		},
	})
}

func WelcomeMail(to, organizationName, role string) Mail {
	return render(to, "Welcome to Save Byte", page{
		Title: "Welcome to Save Byte",
		Lines: []string{
			fmt.Sprintf("Hello %s,", organizationName),
			fmt.Sprintf("Your %s account has been created successfully.", role),
		},
	})
}
