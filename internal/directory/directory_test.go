package directory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/drapequote/internal/errs"
	"github.com/roach88/drapequote/internal/ids"
)

func openTestDirectory(t *testing.T, idList ...string) *Directory {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), FileName), ids.NewFixed(idList...))
	require.NoError(t, err)
	return d
}

func ptr[T any](v T) *T { return &v }

func addCustomer(t *testing.T, d *Directory, name string) Customer {
	t.Helper()
	c, err := d.Add(CustomerInput{Name: name, Phone: "02-1234-5678", Address: "台北市", TemplatePath: "tpl.xlsx"})
	require.NoError(t, err)
	return c
}

func TestAddThenGet(t *testing.T) {
	d := openTestDirectory(t, "c-1")
	cust := addCustomer(t, d, "王小明")

	assert.Equal(t, "c-1", cust.ID)
	assert.Equal(t, []Project{}, cust.Projects)

	got, ok := d.Get(cust.ID)
	require.True(t, ok)
	assert.Equal(t, cust, got)
}

func TestAdd_RequiresName(t *testing.T) {
	d := openTestDirectory(t)
	_, err := d.Add(CustomerInput{Name: "  "})
	assert.True(t, errs.IsValidation(err))
}

func TestUpdate(t *testing.T) {
	d := openTestDirectory(t, "c-1")
	cust := addCustomer(t, d, "王小明")

	updated, err := d.Update(cust.ID, CustomerUpdate{Phone: ptr("0912-345-678")})
	require.NoError(t, err)
	assert.Equal(t, "0912-345-678", updated.Phone)
	assert.Equal(t, "王小明", updated.Name)
	assert.Equal(t, "台北市", updated.Address)
	assert.Equal(t, "tpl.xlsx", updated.TemplatePath)

	_, err = d.Update("missing", CustomerUpdate{Name: ptr("x")})
	assert.True(t, errs.IsNotFound(err))

	_, err = d.Update(cust.ID, CustomerUpdate{Name: ptr("")})
	assert.True(t, errs.IsValidation(err))
}

func TestDelete(t *testing.T) {
	d := openTestDirectory(t, "c-1", "c-2")
	a := addCustomer(t, d, "甲")
	b := addCustomer(t, d, "乙")

	require.NoError(t, d.Delete(a.ID))
	_, ok := d.Get(a.ID)
	assert.False(t, ok)
	assert.Equal(t, []Customer{b}, d.All())

	assert.True(t, errs.IsNotFound(d.Delete(a.ID)))
}

func TestProjects(t *testing.T) {
	d := openTestDirectory(t, "c-1", "p-1", "p-2")
	cust := addCustomer(t, d, "王小明")

	p1, err := d.AddProject(cust.ID, "客廳")
	require.NoError(t, err)
	require.NotNil(t, p1)
	p2, err := d.AddProject(cust.ID, "主臥")
	require.NoError(t, err)

	assert.Equal(t, []Project{*p1, *p2}, d.Projects(cust.ID))

	t.Run("rename", func(t *testing.T) {
		renamed, err := d.UpdateProject(cust.ID, p1.ID, "客廳落地窗")
		require.NoError(t, err)
		require.NotNil(t, renamed)
		assert.Equal(t, p1.ID, renamed.ID)
		assert.Equal(t, "客廳落地窗", d.Projects(cust.ID)[0].Name)
	})

	t.Run("rename unknown", func(t *testing.T) {
		p, err := d.UpdateProject(cust.ID, "nope", "x")
		require.NoError(t, err)
		assert.Nil(t, p)

		p, err = d.UpdateProject("nobody", p1.ID, "x")
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("find", func(t *testing.T) {
		owner, proj, ok := d.FindProject(p2.ID)
		require.True(t, ok)
		assert.Equal(t, cust.ID, owner.ID)
		assert.Equal(t, "主臥", proj.Name)

		_, _, ok = d.FindProject("nope")
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		ok, err := d.DeleteProject(cust.ID, p1.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []Project{*p2}, d.Projects(cust.ID))

		ok, err = d.DeleteProject("nobody", p2.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAddProject_UnknownCustomer(t *testing.T) {
	d := openTestDirectory(t)
	p, err := d.AddProject("nobody", "客廳")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Nil(t, d.Projects("nobody"))
}

func TestProjectIDsAreScopedToCustomer(t *testing.T) {
	// The same project id under two customers is allowed.
	d := openTestDirectory(t, "c-1", "c-2", "p-1", "p-1")
	a := addCustomer(t, d, "甲")
	b := addCustomer(t, d, "乙")

	_, err := d.AddProject(a.ID, "x")
	require.NoError(t, err)
	_, err = d.AddProject(b.ID, "y")
	require.NoError(t, err)

	assert.Equal(t, "x", d.Projects(a.ID)[0].Name)
	assert.Equal(t, "y", d.Projects(b.ID)[0].Name)
}

func TestReturnedValuesDoNotAlias(t *testing.T) {
	d := openTestDirectory(t, "c-1", "p-1")
	cust := addCustomer(t, d, "甲")
	_, err := d.AddProject(cust.ID, "客廳")
	require.NoError(t, err)

	got, _ := d.Get(cust.ID)
	got.Projects[0].Name = "changed"
	assert.Equal(t, "客廳", d.Projects(cust.ID)[0].Name)
}

func TestReload_LegacyCustomerWithoutProjects(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	legacy := `[{"id": "c-1", "name": "甲", "phone": "", "address": "", "template_path": ""}]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	d, err := Open(path, ids.NewFixed("p-1"))
	require.NoError(t, err)
	assert.Equal(t, []Project{}, d.Projects("c-1"))

	p, err := d.AddProject("c-1", "客廳")
	require.NoError(t, err)
	require.NotNil(t, p)

	reopened, err := Open(path, ids.NewFixed())
	require.NoError(t, err)
	assert.Equal(t, []Project{*p}, reopened.Projects("c-1"))
}

func TestOpen_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, err := Open(path, ids.NewFixed())
	assert.True(t, errs.IsStorageDecode(err))
}
