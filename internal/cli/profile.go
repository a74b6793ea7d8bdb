package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/khianvictorycalderon/profilesync/internal/profile"
	"github.com/khianvictorycalderon/profilesync/internal/remote/s3blob"
)

// Show prints every profile field with its edit state.
func (a *App) Show(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Not signed in.")
		return nil
	}

	for _, f := range profile.Fields {
		ctrl := a.orch.Controller(f)
		switch ctrl.State() {
		case profile.StateLoading:
			fmt.Printf("  %-20s (loading)\n", f)
		case profile.StateEditing, profile.StateSaving:
			fmt.Printf("  %-20s %s [draft: %s]\n", f, ctrl.Value().Display(), ctrl.Draft())
		default:
			fmt.Printf("  %-20s %s\n", f, ctrl.Value().Display())
		}
	}
	return nil
}

// Edit prompts for a field name and a new value and opens a draft. Only one
// field is edited at a time.
func (a *App) Edit(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Not signed in.")
		return nil
	}
	if a.editing != "" {
		fmt.Println("Already editing", a.editing, "- save or cancel first.")
		return nil
	}

	field, err := getSimpleText(a.reader, "Field to edit (FirstName, MiddleName, LastName, BirthDate)", os.Stdout)
	if err != nil {
		return err
	}
	if !slices.Contains(profile.EditableFields, field) {
		fmt.Println("Field is not editable:", field)
		return nil
	}

	ctrl := a.orch.Controller(field)
	if err := ctrl.BeginEdit(); err != nil {
		fmt.Println("Cannot edit:", err)
		return err
	}

	value, err := getSimpleText(a.reader, fmt.Sprintf("New value for %s (current: %s)", field, ctrl.Value().Display()), os.Stdout)
	if err != nil {
		_ = ctrl.CancelEdit()
		return err
	}
	if err := ctrl.SetDraft(value); err != nil {
		fmt.Println("Cannot set draft:", err)
		return err
	}

	a.editing = field
	fmt.Println("Draft set. Use save or cancel.")
	return nil
}

// SaveEdit commits the open draft. On failure the field stays in Editing with
// the draft intact, so save can simply be retried.
func (a *App) SaveEdit(ctx context.Context) error {
	if a.editing == "" {
		fmt.Println("Nothing is being edited.")
		return nil
	}

	if err := a.orch.Controller(a.editing).Save(ctx); err != nil {
		fmt.Println("Save failed (draft kept):", err)
		return err
	}

	fmt.Println("Saved", a.editing)
	a.editing = ""
	return nil
}

// CancelEdit discards the open draft and shows the latest remote value.
func (a *App) CancelEdit(ctx context.Context) error {
	if a.editing == "" {
		fmt.Println("Nothing is being edited.")
		return nil
	}

	if err := a.orch.Controller(a.editing).CancelEdit(); err != nil {
		fmt.Println("Cancel failed:", err)
		return err
	}

	fmt.Println("Discarded draft for", a.editing)
	a.editing = ""
	return nil
}

// Avatar uploads a local image to the blob store and prints its download URL.
func (a *App) Avatar(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Not signed in.")
		return nil
	}
	if a.blob == nil {
		fmt.Println("Blob storage is not configured.")
		return nil
	}

	path, err := getSimpleText(a.reader, "Path to image file", os.Stdout)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Println("Cannot open file:", err)
		return err
	}
	defer f.Close()

	id, _ := a.manager.Session().Identity()
	key := s3blob.RandomKey("avatars/"+id.ID) + filepath.Ext(path)

	url, err := a.blob.Upload(ctx, key, f)
	if err != nil {
		fmt.Println("Upload failed:", err)
		return err
	}

	fmt.Println("Uploaded:", url)
	return nil
}
