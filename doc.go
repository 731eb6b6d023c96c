/*

Package bsa reads and writes the family of asset archive formats used by
Bethesda's game engines: Morrowind, Oblivion, Fallout 3/New Vegas, Skyrim
(original and Special Edition), Fallout 4, and Starfield.

It exposes a single version-polymorphic Archive type together with two
directional pipelines: Pack walks a directory tree and bins its files
into one or more archives bounded by a per-game size cap; Unpack opens an
archive and reconstructs the directory tree it was packed from.

Information sources:

- UESP BSA format notes: https://en.uesp.net/wiki/Skyrim_Mod:Archive_File_Format

- Fallout 4 BA2 format notes: https://en.uesp.net/wiki/Fallout4_Mod:Archive_File_Format

- bethutil, the C++ reference implementation this package's pack/unpack
pipeline and dialect layouts are modeled on.

*/
package bsa
