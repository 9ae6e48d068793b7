package pore

import "testing"

func TestResidues(t *testing.T) {
	mol, err := NewMolecule([]string{"O", "H", "H"}, []float64{16, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	res, err := Residues(mol, 9)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 3 {
		t.Fatalf("got %d residues, want 3", len(res))
	}
	if res[2].ID != 2 || res[2].Atoms[0] != 6 || res[2].Atoms[2] != 8 {
		t.Errorf("bad residue indexing: %+v", res[2])
	}
	//topology mismatch must be rejected before sampling starts
	if _, err := Residues(mol, 10); err == nil {
		t.Error("10 atoms with a 3-atom molecule should fail")
	}
}

func TestMoleculeSelection(t *testing.T) {
	mol, err := NewMolecule([]string{"O", "H", "H"}, []float64{16, 1, 1}, "O")
	if err != nil {
		t.Fatal(err)
	}
	if mol.NSelected() != 1 || mol.Len() != 3 {
		t.Errorf("selection: %d of %d atoms", mol.NSelected(), mol.Len())
	}
	if mol.TotalMass() != 16 {
		t.Errorf("selected mass %v, want 16", mol.TotalMass())
	}
	res, err := Residues(mol, 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(res[1].Atoms) != 1 || res[1].Atoms[0] != 3 {
		t.Errorf("selected atom of residue 1: %v", res[1].Atoms)
	}
	if _, err := NewMolecule([]string{"O", "H"}, []float64{16, 1, 1}); err == nil {
		t.Error("mass/atom length mismatch should fail")
	}
}
