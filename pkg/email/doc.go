// Package email delivers postcard notifications.
//
// A Sender takes a PostcardEmail, the template model carrying recipient,
// author, message and the hosted image URL, and hands it to a provider:
//
//   - PostmarkSender invokes a Postmark template by alias with the model
//     fields to_email, to_name, from_email, from_handle, message,
//     postcard_image and subject.
//   - DevSender writes the rendered HTML and the model as JSON to a directory.
//
// NewFromConfig picks the provider from Config.Provider.
//
//	sender, err := email.NewFromConfig(cfg, log)
//	if err != nil {
//	    return err
//	}
//	err = sender.SendPostcard(ctx, email.PostcardEmail{
//	    ToEmail:    "sam@example.com",
//	    ToName:     "Sam",
//	    FromHandle: "alex",
//	    Message:    "Wish you were here",
//	    ImageURL:   url,
//	})
//
// Provider failures are joined with ErrFailedToSendEmail; invalid models with
// ErrInvalidParams.
package email
