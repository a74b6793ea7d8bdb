package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/khianvictorycalderon/profilesync/internal/profile"
	"github.com/khianvictorycalderon/profilesync/internal/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and signs in. Validation and backend
// failures are printed; the session records the classified error.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}

	if err := a.manager.SignIn(ctx, email, string(password)); err != nil {
		fmt.Println("Login failed:", err)
		return err
	}

	fmt.Println("Success!")
	return nil
}

// Register prompts for credentials plus the initial profile fields and
// creates the account. A profile write failure after the credential is
// created is retried once; if it still fails the user stays signed in with
// the initial record pending.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}
	confirm, err := getPassword(os.Stdout, "Confirm password")
	if err != nil {
		return err
	}

	fields := make(map[string]string, len(profile.EditableFields))
	prompts := map[string]string{
		profile.FieldFirstName:  "First name",
		profile.FieldMiddleName: "Middle name (optional)",
		profile.FieldLastName:   "Last name",
		profile.FieldBirthDate:  "Birth date (YYYY-MM-DD)",
	}
	for _, f := range profile.EditableFields {
		v, err := getSimpleText(a.reader, prompts[f], os.Stdout)
		if err != nil {
			return err
		}
		if v != "" {
			fields[f] = v
		}
	}

	err = a.manager.Register(ctx, email, string(password), string(confirm), fields)
	if errors.Is(err, session.ErrProfileIncomplete) {
		fmt.Println("Account created, retrying initial profile write...")
		if err := a.manager.CompleteRegistration(ctx); err != nil {
			fmt.Println("Profile still incomplete:", err)
			return err
		}
		fmt.Println("Success!")
		return nil
	}
	if err != nil {
		fmt.Println("Registration failed:", err)
		return err
	}

	fmt.Println("Success!")
	return nil
}

// Logout signs out unconditionally; subscriptions are torn down via the
// identity listener.
func (a *App) Logout(ctx context.Context) error {
	a.manager.SignOut(ctx)
	a.editing = ""
	fmt.Println("Signed out.")
	return nil
}

// DeleteAccount removes the profile record and the credential after an
// explicit confirmation. A partial failure leaves the session authenticated
// and names the identity for reconciliation.
func (a *App) DeleteAccount(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Type DELETE to permanently remove the account", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "DELETE" {
		fmt.Println("Aborted.")
		return nil
	}

	err = a.manager.DeleteAccount(ctx)
	var partial *session.PartialDeleteError
	if errors.As(err, &partial) {
		fmt.Printf("Profile record removed but credential deletion failed for %s: %v\n",
			partial.IdentityID, partial.Err)
		return err
	}
	if err != nil {
		fmt.Println("Deletion failed:", err)
		return err
	}

	a.editing = ""
	fmt.Println("Account deleted.")
	return nil
}
