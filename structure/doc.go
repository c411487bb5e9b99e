// Package structure locates molecular structures and turns them into cartoon
// wireframes on disk.
//
// Inputs are resolved in order: an existing .obj is used directly, a .pdb/.cif
// file (or anything that looks like a path) is exported through PyMOL, and
// anything else is treated as a four character PDB ID that is downloaded from
// RCSB before export. Downloads and exports are cached under the user cache
// directory so a second run starts instantly.
package structure
